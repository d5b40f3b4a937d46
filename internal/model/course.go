package model

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID              uuid.UUID `db:"id" json:"id"`
	CoachID         uuid.UUID `db:"coach_id" json:"coach_id"`
	SkillID         uuid.UUID `db:"skill_id" json:"skill_id"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description"`
	StartAt         time.Time `db:"start_at" json:"start_at"`
	EndAt           time.Time `db:"end_at" json:"end_at"`
	MaxParticipants int       `db:"max_participants" json:"max_participants"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type CourseDetails struct {
	ID              uuid.UUID `db:"id" json:"id"`
	CoachName       string    `db:"coach_name" json:"coach_name"`
	SkillName       string    `db:"skill_name" json:"skill_name"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description"`
	StartAt         time.Time `db:"start_at" json:"start_at"`
	EndAt           time.Time `db:"end_at" json:"end_at"`
	MaxParticipants int       `db:"max_participants" json:"max_participants"`
	ActiveBookings  int       `db:"active_bookings" json:"active_bookings"`
}
