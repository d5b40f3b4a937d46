package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "USER"
	RoleCoach = "COACH"
)

type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}
