package dashboard

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/knownet-app/knownet-backend/internal/sessions"
)

const searchLimit = 10

// Repository backs the cross-entity search endpoint.
type Repository interface {
	SearchUsers(ctx context.Context, query string) ([]*UserSearchResult, error)
	SearchSkills(ctx context.Context, query string) ([]*SkillSearchResult, error)
	SearchSessions(ctx context.Context, query string) ([]*sessions.Session, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) SearchUsers(ctx context.Context, query string) ([]*UserSearchResult, error) {
	users := []*UserSearchResult{}
	q := `
		SELECT id, name, location, avatar_url, role
		FROM users
		WHERE name ILIKE $1 OR location ILIKE $1
		LIMIT $2
	`
	err := r.db.SelectContext(ctx, &users, q, "%"+query+"%", searchLimit)
	return users, err
}

func (r *postgresRepository) SearchSkills(ctx context.Context, query string) ([]*SkillSearchResult, error) {
	q := `
		SELECT s.skill_name, s.level,
		       u.id, u.name, u.location, u.avatar_url, u.role
		FROM user_skills s
		JOIN users u ON s.user_id = u.id
		WHERE s.skill_name ILIKE $1
		LIMIT $2
	`

	rows, err := r.db.QueryxContext(ctx, q, "%"+query+"%", searchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*SkillSearchResult{}
	for rows.Next() {
		var res SkillSearchResult
		err := rows.Scan(
			&res.Skill, &res.Level,
			&res.User.ID, &res.User.Name, &res.User.Location,
			&res.User.AvatarURL, &res.User.Role,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, &res)
	}

	return results, rows.Err()
}

func (r *postgresRepository) SearchSessions(ctx context.Context, query string) ([]*sessions.Session, error) {
	list := []*sessions.Session{}
	q := `
		SELECT s.id, s.title, s.description, s.date, s.time, s.location,
		       s.recording_url, s.created_by, s.created_at,
		       u.name AS creator_name,
		       (SELECT COUNT(*) FROM attendance a WHERE a.session_id = s.id) AS attendee_count
		FROM sessions s
		JOIN users u ON s.created_by = u.id
		WHERE s.title ILIKE $1 OR s.description ILIKE $1
		LIMIT $2
	`
	err := r.db.SelectContext(ctx, &list, q, "%"+query+"%", searchLimit)
	return list, err
}
