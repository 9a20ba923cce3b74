package messages

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, message *Message) error
	GetByID(ctx context.Context, id int64) (*Message, error)
	ListBySession(ctx context.Context, sessionID int64) ([]*Message, error)
	ListByConnection(ctx context.Context, connectionID int64) ([]*Message, error)
	Delete(ctx context.Context, id int64) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, message *Message) error {
	query := `
		INSERT INTO messages (session_id, connection_id, sender_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	return r.db.QueryRowxContext(
		ctx, query,
		message.SessionID, message.ConnectionID, message.SenderID, message.Content,
	).Scan(&message.ID, &message.CreatedAt)
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Message, error) {
	var message Message
	err := r.db.GetContext(ctx, &message, `SELECT * FROM messages WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *postgresRepository) ListBySession(ctx context.Context, sessionID int64) ([]*Message, error) {
	query := `
		SELECT * FROM messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`

	msgs := []*Message{}
	err := r.db.SelectContext(ctx, &msgs, query, sessionID)
	return msgs, err
}

func (r *postgresRepository) ListByConnection(ctx context.Context, connectionID int64) ([]*Message, error) {
	query := `
		SELECT * FROM messages
		WHERE connection_id = $1
		ORDER BY created_at ASC
	`

	msgs := []*Message{}
	err := r.db.SelectContext(ctx, &msgs, query, connectionID)
	return msgs, err
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return err
}
