package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrDateInPast      = errors.New("session date cannot be in the past")
	ErrBadDate         = errors.New("date must be in YYYY-MM-DD format")
	ErrBadTime         = errors.New("time must be in HH:MM format")
	ErrNoAccess        = errors.New("user has no access to this session")
)

type Service interface {
	Create(ctx context.Context, userID int64, req *CreateSessionRequest) (*Session, error)
	Get(ctx context.Context, sessionID int64) (*Session, error)
	List(ctx context.Context, location string) ([]*Session, error)
	ListCreatedBy(ctx context.Context, userID int64) ([]*Session, error)
	ListJoinedBy(ctx context.Context, userID int64) ([]*Session, error)

	Join(ctx context.Context, sessionID, userID int64) error
	Attendees(ctx context.Context, sessionID int64) ([]*Attendee, error)

	// EnsureAccess verifies the user created or joined the session.
	EnsureAccess(ctx context.Context, sessionID, userID int64) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		now:  time.Now,
	}
}

// Create validates and stores a new mentoring session.
func (s *service) Create(ctx context.Context, userID int64, req *CreateSessionRequest) (*Session, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrBadDate
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return nil, ErrBadTime
	}

	today := s.now().Truncate(24 * time.Hour)
	if date.Before(today) {
		return nil, ErrDateInPast
	}

	session := &Session{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Date:        date,
		Time:        req.Time,
		Location:    strings.TrimSpace(req.Location),
		CreatedBy:   userID,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

func (s *service) Get(ctx context.Context, sessionID int64) (*Session, error) {
	return s.repo.GetByID(ctx, sessionID)
}

func (s *service) List(ctx context.Context, location string) ([]*Session, error) {
	return s.repo.List(ctx, strings.TrimSpace(location))
}

func (s *service) ListCreatedBy(ctx context.Context, userID int64) ([]*Session, error) {
	return s.repo.ListCreatedBy(ctx, userID)
}

func (s *service) ListJoinedBy(ctx context.Context, userID int64) ([]*Session, error) {
	return s.repo.ListJoinedBy(ctx, userID)
}

// Join registers attendance. Joining twice is a no-op.
func (s *service) Join(ctx context.Context, sessionID, userID int64) error {
	if _, err := s.repo.GetByID(ctx, sessionID); err != nil {
		return err
	}

	if err := s.repo.AddAttendance(ctx, sessionID, userID); err != nil {
		return fmt.Errorf("failed to join session: %w", err)
	}

	return nil
}

func (s *service) Attendees(ctx context.Context, sessionID int64) ([]*Attendee, error) {
	if _, err := s.repo.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.repo.ListAttendees(ctx, sessionID)
}

func (s *service) EnsureAccess(ctx context.Context, sessionID, userID int64) error {
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}

	if session.CreatedBy == userID {
		return nil
	}

	attending, err := s.repo.IsAttending(ctx, sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to check attendance: %w", err)
	}
	if !attending {
		return ErrNoAccess
	}

	return nil
}
