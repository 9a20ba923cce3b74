package sessions

import "time"

type Session struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	Date         time.Time `json:"date" db:"date"`
	Time         string    `json:"time" db:"time"`
	Location     string    `json:"location" db:"location"`
	RecordingURL *string   `json:"recording_url" db:"recording_url"`
	CreatedBy    int64     `json:"created_by" db:"created_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// Populated by listings
	CreatorName   string `json:"creator_name,omitempty" db:"creator_name"`
	AttendeeCount int    `json:"attendee_count" db:"attendee_count"`
}

// Attendee is the user projection returned for a session's attendee list
type Attendee struct {
	UserID   int64     `json:"user_id" db:"user_id"`
	Name     string    `json:"name" db:"name"`
	Email    string    `json:"email" db:"email"`
	Role     string    `json:"role" db:"role"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}

type CreateSessionRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"required,min=10"`
	Date        string `json:"date" validate:"required"` // YYYY-MM-DD
	Time        string `json:"time" validate:"required"` // HH:MM
	Location    string `json:"location" validate:"required,min=2,max=255"`
}
