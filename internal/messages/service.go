package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrMessageNotFound = errors.New("message not found")
	ErrEmptyContent    = errors.New("message content cannot be empty")
	ErrNotSender       = errors.New("only the sender can delete a message")
)

// SessionAccess checks that a user created or joined a session.
type SessionAccess interface {
	EnsureAccess(ctx context.Context, sessionID, userID int64) error
}

// ConnectionAccess checks that a user belongs to an accepted connection.
type ConnectionAccess interface {
	EnsureParticipant(ctx context.Context, connectionID, userID int64) error
}

type Service interface {
	SendToSession(ctx context.Context, sessionID, senderID int64, content string) (*Message, error)
	SendToConnection(ctx context.Context, connectionID, senderID int64, content string) (*Message, error)
	ListForSession(ctx context.Context, sessionID, userID int64) ([]*Message, error)
	ListForConnection(ctx context.Context, connectionID, userID int64) ([]*Message, error)

	// Delete removes a message. Only the sender may delete it.
	Delete(ctx context.Context, messageID, userID int64) error
}

type service struct {
	repo        Repository
	sessions    SessionAccess
	connections ConnectionAccess
}

func NewService(repo Repository, sessions SessionAccess, connections ConnectionAccess) Service {
	return &service{
		repo:        repo,
		sessions:    sessions,
		connections: connections,
	}
}

func (s *service) SendToSession(ctx context.Context, sessionID, senderID int64, content string) (*Message, error) {
	if err := s.sessions.EnsureAccess(ctx, sessionID, senderID); err != nil {
		return nil, err
	}

	content, err := cleanContent(content)
	if err != nil {
		return nil, err
	}

	message := &Message{
		SessionID: &sessionID,
		SenderID:  senderID,
		Content:   content,
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	return message, nil
}

func (s *service) SendToConnection(ctx context.Context, connectionID, senderID int64, content string) (*Message, error) {
	if err := s.connections.EnsureParticipant(ctx, connectionID, senderID); err != nil {
		return nil, err
	}

	content, err := cleanContent(content)
	if err != nil {
		return nil, err
	}

	message := &Message{
		ConnectionID: &connectionID,
		SenderID:     senderID,
		Content:      content,
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	return message, nil
}

// ListForSession returns a session's messages oldest first.
func (s *service) ListForSession(ctx context.Context, sessionID, userID int64) ([]*Message, error) {
	if err := s.sessions.EnsureAccess(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListBySession(ctx, sessionID)
}

// ListForConnection returns a connection's messages oldest first.
func (s *service) ListForConnection(ctx context.Context, connectionID, userID int64) ([]*Message, error) {
	if err := s.connections.EnsureParticipant(ctx, connectionID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByConnection(ctx, connectionID)
}

func (s *service) Delete(ctx context.Context, messageID, userID int64) error {
	message, err := s.repo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	if message.SenderID != userID {
		return ErrNotSender
	}

	if err := s.repo.Delete(ctx, message.ID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return nil
}

func cleanContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	return content, nil
}
