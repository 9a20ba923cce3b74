package connections

import (
	"context"
	"errors"
	"fmt"
)

// Common errors
var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrSelfConnection     = errors.New("cannot connect with yourself")
	ErrReceiverNotFound   = errors.New("receiver not found")
	ErrAlreadyConnected   = errors.New("users are already connected")
	ErrRequestPending     = errors.New("a request between these users is already pending")
	ErrNotReceiver        = errors.New("only the receiver can respond to a request")
	ErrNotPending         = errors.New("request is not pending")
	ErrNotParticipant     = errors.New("user is not a participant of this connection")
)

type Service interface {
	CreateRequest(ctx context.Context, senderID, receiverID int64) (*Connection, error)
	Accept(ctx context.Context, connectionID, userID int64) (*Connection, error)
	Reject(ctx context.Context, connectionID, userID int64) error
	ListPending(ctx context.Context, userID int64) ([]*Connection, error)
	ListAccepted(ctx context.Context, userID int64) ([]*Connection, error)

	// EnsureParticipant verifies userID belongs to an accepted connection.
	// Used by the meeting relay before letting a client into a room.
	EnsureParticipant(ctx context.Context, connectionID, userID int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateRequest sends a pending connection request from sender to receiver.
func (s *service) CreateRequest(ctx context.Context, senderID, receiverID int64) (*Connection, error) {
	if senderID == receiverID {
		return nil, ErrSelfConnection
	}

	exists, err := s.repo.UserExists(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check receiver: %w", err)
	}
	if !exists {
		return nil, ErrReceiverNotFound
	}

	existing, err := s.repo.GetBetween(ctx, senderID, receiverID)
	if err != nil && !errors.Is(err, ErrConnectionNotFound) {
		return nil, fmt.Errorf("failed to check existing connection: %w", err)
	}
	if existing != nil {
		switch existing.Status {
		case StatusAccepted:
			return nil, ErrAlreadyConnected
		case StatusPending:
			return nil, ErrRequestPending
		}
	}

	conn := &Connection{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     StatusPending,
	}

	if err := s.repo.Create(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	return conn, nil
}

// Accept marks a pending request as accepted. Only the receiver may accept;
// accepting an already-accepted request is a no-op.
func (s *service) Accept(ctx context.Context, connectionID, userID int64) (*Connection, error) {
	conn, err := s.repo.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	if conn.ReceiverID != userID {
		return nil, ErrNotReceiver
	}

	if conn.Status == StatusAccepted {
		return conn, nil
	}

	if err := s.repo.UpdateStatus(ctx, conn.ID, StatusAccepted); err != nil {
		return nil, fmt.Errorf("failed to accept connection: %w", err)
	}

	conn.Status = StatusAccepted
	return conn, nil
}

// Reject deletes a pending request. Only the receiver may reject, and only
// while the request is still pending.
func (s *service) Reject(ctx context.Context, connectionID, userID int64) error {
	conn, err := s.repo.GetByID(ctx, connectionID)
	if err != nil {
		return err
	}

	if conn.ReceiverID != userID {
		return ErrNotReceiver
	}

	if conn.Status != StatusPending {
		return ErrNotPending
	}

	if err := s.repo.Delete(ctx, conn.ID); err != nil {
		return fmt.Errorf("failed to reject connection: %w", err)
	}

	return nil
}

func (s *service) ListPending(ctx context.Context, userID int64) ([]*Connection, error) {
	return s.repo.ListPendingForReceiver(ctx, userID)
}

func (s *service) ListAccepted(ctx context.Context, userID int64) ([]*Connection, error) {
	return s.repo.ListAccepted(ctx, userID)
}

func (s *service) EnsureParticipant(ctx context.Context, connectionID, userID int64) error {
	conn, err := s.repo.GetByID(ctx, connectionID)
	if err != nil {
		return err
	}

	if conn.Status != StatusAccepted {
		return ErrNotParticipant
	}

	if conn.SenderID != userID && conn.ReceiverID != userID {
		return ErrNotParticipant
	}

	return nil
}
