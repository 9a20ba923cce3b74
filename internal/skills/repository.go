package skills

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, skill *Skill) error
	GetByID(ctx context.Context, id int64) (*Skill, error)
	ListByUser(ctx context.Context, userID int64) ([]*Skill, error)
	ExistsForUser(ctx context.Context, userID int64, name string) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, skill *Skill) error {
	query := `
		INSERT INTO user_skills (user_id, skill_name, level)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	return r.db.QueryRowxContext(
		ctx, query,
		skill.UserID, skill.Name, skill.Level,
	).Scan(&skill.ID, &skill.CreatedAt)
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Skill, error) {
	var skill Skill
	err := r.db.GetContext(ctx, &skill, `SELECT * FROM user_skills WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrSkillNotFound
	}
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID int64) ([]*Skill, error) {
	skills := []*Skill{}
	query := `SELECT * FROM user_skills WHERE user_id = $1 ORDER BY created_at ASC`
	err := r.db.SelectContext(ctx, &skills, query, userID)
	return skills, err
}

func (r *postgresRepository) ExistsForUser(ctx context.Context, userID int64, name string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM user_skills WHERE user_id = $1 AND LOWER(skill_name) = LOWER($2))`
	err := r.db.GetContext(ctx, &exists, query, userID, name)
	return exists, err
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_skills WHERE id = $1`, id)
	return err
}
