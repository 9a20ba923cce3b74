package skills

import "time"

type Skill struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Name      string    `json:"skill_name" db:"skill_name"`
	Level     *string   `json:"level" db:"level"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type AddSkillRequest struct {
	Name  string  `json:"skill_name" validate:"required,min=2,max=100"`
	Level *string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
}
