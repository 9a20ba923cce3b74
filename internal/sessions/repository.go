package sessions

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id int64) (*Session, error)
	List(ctx context.Context, location string) ([]*Session, error)
	ListCreatedBy(ctx context.Context, userID int64) ([]*Session, error)
	ListJoinedBy(ctx context.Context, userID int64) ([]*Session, error)

	AddAttendance(ctx context.Context, sessionID, userID int64) error
	IsAttending(ctx context.Context, sessionID, userID int64) (bool, error)
	ListAttendees(ctx context.Context, sessionID int64) ([]*Attendee, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const sessionColumns = `
	s.id, s.title, s.description, s.date, s.time, s.location,
	s.recording_url, s.created_by, s.created_at,
	u.name AS creator_name,
	(SELECT COUNT(*) FROM attendance a WHERE a.session_id = s.id) AS attendee_count
`

func (r *postgresRepository) Create(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO sessions (title, description, date, time, location, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	return r.db.QueryRowxContext(
		ctx, query,
		session.Title, session.Description, session.Date, session.Time,
		session.Location, session.CreatedBy,
	).Scan(&session.ID, &session.CreatedAt)
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Session, error) {
	var session Session
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions s
		JOIN users u ON s.created_by = u.id
		WHERE s.id = $1
	`

	err := r.db.GetContext(ctx, &session, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// List returns sessions in chronological order, optionally filtered by a
// case-insensitive location match.
func (r *postgresRepository) List(ctx context.Context, location string) ([]*Session, error) {
	sessions := []*Session{}

	if location != "" {
		query := `
			SELECT ` + sessionColumns + `
			FROM sessions s
			JOIN users u ON s.created_by = u.id
			WHERE LOWER(s.location) = LOWER($1)
			ORDER BY s.date ASC, s.time ASC
		`
		err := r.db.SelectContext(ctx, &sessions, query, location)
		return sessions, err
	}

	query := `
		SELECT ` + sessionColumns + `
		FROM sessions s
		JOIN users u ON s.created_by = u.id
		ORDER BY s.date ASC, s.time ASC
	`
	err := r.db.SelectContext(ctx, &sessions, query)
	return sessions, err
}

func (r *postgresRepository) ListCreatedBy(ctx context.Context, userID int64) ([]*Session, error) {
	sessions := []*Session{}
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions s
		JOIN users u ON s.created_by = u.id
		WHERE s.created_by = $1
		ORDER BY s.date ASC, s.time ASC
	`
	err := r.db.SelectContext(ctx, &sessions, query, userID)
	return sessions, err
}

func (r *postgresRepository) ListJoinedBy(ctx context.Context, userID int64) ([]*Session, error) {
	sessions := []*Session{}
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions s
		JOIN users u ON s.created_by = u.id
		JOIN attendance att ON att.session_id = s.id
		WHERE att.user_id = $1
		ORDER BY s.date ASC, s.time ASC
	`
	err := r.db.SelectContext(ctx, &sessions, query, userID)
	return sessions, err
}

func (r *postgresRepository) AddAttendance(ctx context.Context, sessionID, userID int64) error {
	query := `
		INSERT INTO attendance (session_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (session_id, user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, sessionID, userID)
	return err
}

func (r *postgresRepository) IsAttending(ctx context.Context, sessionID, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM attendance WHERE session_id = $1 AND user_id = $2)`
	err := r.db.GetContext(ctx, &exists, query, sessionID, userID)
	return exists, err
}

func (r *postgresRepository) ListAttendees(ctx context.Context, sessionID int64) ([]*Attendee, error) {
	attendees := []*Attendee{}
	query := `
		SELECT u.id AS user_id, u.name, u.email, u.role, a.joined_at
		FROM attendance a
		JOIN users u ON a.user_id = u.id
		WHERE a.session_id = $1
		ORDER BY a.joined_at ASC
	`
	err := r.db.SelectContext(ctx, &attendees, query, sessionID)
	return attendees, err
}
