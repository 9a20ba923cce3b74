package recommend

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

// Repository loads the data a ranking run needs. Each method is a bulk
// fetch; the ranker never goes back to the database per candidate.
type Repository interface {
	GetCandidate(ctx context.Context, userID int64) (*Candidate, error)
	ListOtherCandidates(ctx context.Context, userID int64) ([]*Candidate, error)
	GetConnectionMap(ctx context.Context, userID int64) (map[int64]*ConnectionInfo, error)
	ListSessionRefs(ctx context.Context) ([]SessionRef, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetCandidate(ctx context.Context, userID int64) (*Candidate, error) {
	var candidate Candidate
	query := `
		SELECT id, name, email, role, location, city, state,
		       latitude, longitude, avatar_url
		FROM users
		WHERE id = $1
	`

	if err := r.db.GetContext(ctx, &candidate, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	skills, err := r.loadSkills(ctx, []int64{userID})
	if err != nil {
		return nil, err
	}
	candidate.Skills = skills[userID]

	return &candidate, nil
}

func (r *postgresRepository) ListOtherCandidates(ctx context.Context, userID int64) ([]*Candidate, error) {
	var candidates []*Candidate
	query := `
		SELECT id, name, email, role, location, city, state,
		       latitude, longitude, avatar_url
		FROM users
		WHERE id != $1
		ORDER BY id
	`

	if err := r.db.SelectContext(ctx, &candidates, query, userID); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return candidates, nil
	}

	ids := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}

	skills, err := r.loadSkills(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range candidates {
		c.Skills = skills[c.ID]
	}

	return candidates, nil
}

// loadSkills fetches skills for a set of users in one query.
func (r *postgresRepository) loadSkills(ctx context.Context, userIDs []int64) (map[int64][]string, error) {
	query, args, err := sqlx.In(`
		SELECT user_id, skill_name AS name
		FROM user_skills
		WHERE user_id IN (?)
		ORDER BY created_at ASC
	`, userIDs)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var rows []struct {
		UserID int64  `db:"user_id"`
		Name   string `db:"name"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	skills := make(map[int64][]string, len(userIDs))
	for _, row := range rows {
		skills[row.UserID] = append(skills[row.UserID], row.Name)
	}
	return skills, nil
}

// GetConnectionMap returns the requester's latest connection per
// counterpart, keyed by the other user's id.
func (r *postgresRepository) GetConnectionMap(ctx context.Context, userID int64) (map[int64]*ConnectionInfo, error) {
	var rows []struct {
		ID         int64  `db:"id"`
		SenderID   int64  `db:"sender_id"`
		ReceiverID int64  `db:"receiver_id"`
		Status     string `db:"status"`
	}
	query := `
		SELECT id, sender_id, receiver_id, status
		FROM connections
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at ASC
	`

	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}

	// Later rows overwrite earlier ones, leaving the most recent
	// connection per counterpart.
	connMap := make(map[int64]*ConnectionInfo, len(rows))
	for _, row := range rows {
		info := &ConnectionInfo{ID: row.ID, Status: row.Status}
		targetID := row.ReceiverID
		if row.SenderID == userID {
			info.IsSender = true
		} else {
			targetID = row.SenderID
		}
		connMap[targetID] = info
	}
	return connMap, nil
}

func (r *postgresRepository) ListSessionRefs(ctx context.Context) ([]SessionRef, error) {
	var refs []SessionRef
	query := `
		SELECT id AS session_id, title, location
		FROM sessions
		ORDER BY date ASC, time ASC
	`

	if err := r.db.SelectContext(ctx, &refs, query); err != nil {
		return nil, err
	}
	return refs, nil
}
