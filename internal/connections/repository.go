package connections

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, conn *Connection) error
	GetByID(ctx context.Context, id int64) (*Connection, error)
	GetBetween(ctx context.Context, userA, userB int64) (*Connection, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	ListPendingForReceiver(ctx context.Context, receiverID int64) ([]*Connection, error)
	ListAccepted(ctx context.Context, userID int64) ([]*Connection, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, conn *Connection) error {
	query := `
		INSERT INTO connections (sender_id, receiver_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRowxContext(
		ctx, query,
		conn.SenderID, conn.ReceiverID, conn.Status,
	).Scan(&conn.ID, &conn.CreatedAt, &conn.UpdatedAt)
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Connection, error) {
	var conn Connection
	err := r.db.GetContext(ctx, &conn, `SELECT * FROM connections WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrConnectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// GetBetween returns the latest connection row between two users in either
// direction, or ErrConnectionNotFound.
func (r *postgresRepository) GetBetween(ctx context.Context, userA, userB int64) (*Connection, error) {
	var conn Connection
	query := `
		SELECT * FROM connections
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &conn, query, userA, userB)
	if err == sql.ErrNoRows {
		return nil, ErrConnectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `
		UPDATE connections
		SET status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM connections WHERE id = $1`, id)
	return err
}

func (r *postgresRepository) ListPendingForReceiver(ctx context.Context, receiverID int64) ([]*Connection, error) {
	query := `
		SELECT c.*,
		       u.id AS "counterpart.id", u.name AS "counterpart.name",
		       u.email AS "counterpart.email", u.role AS "counterpart.role",
		       u.location AS "counterpart.location", u.avatar_url AS "counterpart.avatar_url"
		FROM connections c
		JOIN users u ON c.sender_id = u.id
		WHERE c.receiver_id = $1 AND c.status = 'pending'
		ORDER BY c.created_at ASC
	`

	return r.listWithCounterpart(ctx, query, receiverID)
}

func (r *postgresRepository) ListAccepted(ctx context.Context, userID int64) ([]*Connection, error) {
	query := `
		SELECT c.*,
		       u.id AS "counterpart.id", u.name AS "counterpart.name",
		       u.email AS "counterpart.email", u.role AS "counterpart.role",
		       u.location AS "counterpart.location", u.avatar_url AS "counterpart.avatar_url"
		FROM connections c
		JOIN users u ON u.id = CASE WHEN c.sender_id = $1 THEN c.receiver_id ELSE c.sender_id END
		WHERE (c.sender_id = $1 OR c.receiver_id = $1) AND c.status = 'accepted'
		ORDER BY c.updated_at DESC
	`

	return r.listWithCounterpart(ctx, query, userID)
}

func (r *postgresRepository) listWithCounterpart(ctx context.Context, query string, arg int64) ([]*Connection, error) {
	rows, err := r.db.QueryxContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conns := []*Connection{}
	for rows.Next() {
		var conn Connection
		var counterpart UserInfo

		err := rows.Scan(
			&conn.ID, &conn.SenderID, &conn.ReceiverID, &conn.Status,
			&conn.CreatedAt, &conn.UpdatedAt,
			&counterpart.ID, &counterpart.Name, &counterpart.Email,
			&counterpart.Role, &counterpart.Location, &counterpart.AvatarURL,
		)
		if err != nil {
			return nil, err
		}

		conn.Counterpart = &counterpart
		conns = append(conns, &conn)
	}

	return conns, rows.Err()
}

func (r *postgresRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID)
	return exists, err
}
