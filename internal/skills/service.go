package skills

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrSkillNotFound = errors.New("skill not found")
	ErrSkillExists   = errors.New("skill already added")
	ErrSkillTooShort = errors.New("skill name must be at least 2 characters")
	ErrNotOwner      = errors.New("skill belongs to another user")
)

type Service interface {
	Add(ctx context.Context, userID int64, req *AddSkillRequest) (*Skill, error)
	List(ctx context.Context, userID int64) ([]*Skill, error)
	Remove(ctx context.Context, userID, skillID int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Add records a skill for the user. Names are kept in the casing the user
// typed; duplicates are detected case-insensitively.
func (s *service) Add(ctx context.Context, userID int64, req *AddSkillRequest) (*Skill, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < 2 {
		return nil, ErrSkillTooShort
	}

	exists, err := s.repo.ExistsForUser(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check skill: %w", err)
	}
	if exists {
		return nil, ErrSkillExists
	}

	skill := &Skill{
		UserID: userID,
		Name:   name,
		Level:  req.Level,
	}

	if err := s.repo.Create(ctx, skill); err != nil {
		return nil, fmt.Errorf("failed to add skill: %w", err)
	}

	return skill, nil
}

func (s *service) List(ctx context.Context, userID int64) ([]*Skill, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Remove(ctx context.Context, userID, skillID int64) error {
	skill, err := s.repo.GetByID(ctx, skillID)
	if err != nil {
		return err
	}

	if skill.UserID != userID {
		return ErrNotOwner
	}

	if err := s.repo.Delete(ctx, skillID); err != nil {
		return fmt.Errorf("failed to remove skill: %w", err)
	}

	return nil
}
