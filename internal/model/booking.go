package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrBookingNotActive = errors.New("booking is not active")

// BookingState is either Active or Cancelled.
type BookingState interface {
	isBookingState()
}

type Active struct{}

type Cancelled struct {
	At time.Time
}

func (Active) isBookingState()    {}
func (Cancelled) isBookingState() {}

type CourseBooking struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	CourseID    uuid.UUID  `db:"course_id" json:"course_id"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
}

func (b *CourseBooking) State() BookingState {
	if b.CancelledAt == nil {
		return Active{}
	}
	return Cancelled{At: *b.CancelledAt}
}

func (b *CourseBooking) IsActive() bool {
	_, ok := b.State().(Active)
	return ok
}

// Cancel moves an active booking to Cancelled. A cancelled booking stays as it is.
func (b *CourseBooking) Cancel(at time.Time) error {
	if !b.IsActive() {
		return ErrBookingNotActive
	}
	at = at.UTC()
	b.CancelledAt = &at
	return nil
}

func (b *CourseBooking) Status() string {
	switch b.State().(type) {
	case Cancelled:
		return "cancelled"
	default:
		return "active"
	}
}
