package recommend

import (
	"context"
	"fmt"
	"time"
)

type Service interface {
	// LocationRecommendations ranks all other users for the requester and
	// returns the local/global/combined views, untruncated.
	LocationRecommendations(ctx context.Context, userID int64) (*RankedUsers, error)

	// SessionRecommendations scores every session against a location label.
	SessionRecommendations(ctx context.Context, userLocation string) ([]ScoredSession, error)
}

type service struct {
	repo   Repository
	ranker *Ranker
}

func NewService(repo Repository, ranker *Ranker) Service {
	return &service{repo: repo, ranker: ranker}
}

func (s *service) LocationRecommendations(ctx context.Context, userID int64) (*RankedUsers, error) {
	start := time.Now()

	requester, err := s.repo.GetCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}

	pool, err := s.repo.ListOtherCandidates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}

	connMap, err := s.repo.GetConnectionMap(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load connections: %w", err)
	}

	ranked := s.ranker.RankUsers(requester, pool, requester.Skills, connMap)
	recordRanking("users", len(pool), start)

	return ranked, nil
}

func (s *service) SessionRecommendations(ctx context.Context, userLocation string) ([]ScoredSession, error) {
	start := time.Now()

	refs, err := s.repo.ListSessionRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	scored := s.ranker.RankSessions(userLocation, refs)
	recordRanking("sessions", len(refs), start)

	return scored, nil
}
