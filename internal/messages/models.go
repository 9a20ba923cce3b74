package messages

import "time"

// Message is a persistent chat message scoped to either a session or an
// accepted connection. Exactly one of SessionID / ConnectionID is set.
type Message struct {
	ID           int64     `json:"id" db:"id"`
	SessionID    *int64    `json:"session_id,omitempty" db:"session_id"`
	ConnectionID *int64    `json:"connection_id,omitempty" db:"connection_id"`
	SenderID     int64     `json:"sender_id" db:"sender_id"`
	Content      string    `json:"content" db:"content"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
