package connections

import "time"

// Connection statuses
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
)

type Connection struct {
	ID         int64     `json:"id" db:"id"`
	SenderID   int64     `json:"sender_id" db:"sender_id"`
	ReceiverID int64     `json:"receiver_id" db:"receiver_id"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`

	// Joined counterpart info for listings
	Counterpart *UserInfo `json:"counterpart,omitempty"`
}

// UserInfo is the slim user projection joined into connection listings
type UserInfo struct {
	ID        int64   `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Email     string  `json:"email" db:"email"`
	Role      string  `json:"role" db:"role"`
	Location  *string `json:"location" db:"location"`
	AvatarURL *string `json:"avatar_url" db:"avatar_url"`
}

type CreateConnectionRequest struct {
	ReceiverID int64 `json:"receiver_id" validate:"required,gt=0"`
}
