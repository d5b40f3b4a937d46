package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"booking-service/internal/events"
	"booking-service/internal/keylock"
	"booking-service/internal/ledger"
	"booking-service/internal/model"
	"booking-service/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// BookingOutcome is either an admitted booking or a rejection reason.
type BookingOutcome struct {
	Booking  *model.CourseBooking
	Rejected ledger.Reason
}

func (o *BookingOutcome) Admitted() bool {
	return o.Rejected == ""
}

type BookingService interface {
	RequestBooking(ctx context.Context, userID, courseID uuid.UUID) (*BookingOutcome, error)
	RequestCancellation(ctx context.Context, userID, courseID uuid.UUID) (*BookingOutcome, error)
	Balance(ctx context.Context, userID uuid.UUID) (ledger.Balance, error)
	Occupancy(ctx context.Context, courseID uuid.UUID) (ledger.Occupancy, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID) ([]model.CourseBooking, error)
}

type bookingService struct {
	store    repository.LedgerStore
	locks    *keylock.Locker
	dispatch *Dispatcher
	timeout  time.Duration
	now      func() time.Time
}

func NewBookingService(store repository.LedgerStore, locks *keylock.Locker, dispatch *Dispatcher, timeout time.Duration) BookingService {
	return &bookingService{
		store:    store,
		locks:    locks,
		dispatch: dispatch,
		timeout:  timeout,
		now:      time.Now,
	}
}

func (s *bookingService) RequestBooking(ctx context.Context, userID, courseID uuid.UUID) (*BookingOutcome, error) {
	ctx, span := tracer.Start(ctx, "BookingService.RequestBooking", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("course_id", courseID.String()),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	unlock, err := s.locks.Lock(ctx, keylock.UserKey(userID), keylock.CourseKey(courseID))
	if err != nil {
		return nil, s.fail(ctx, span, "request booking", err)
	}
	defer unlock()

	var booking *model.CourseBooking
	err = s.store.InTx(ctx, func(tx repository.LedgerTx) error {
		snapshot, err := s.bookingSnapshot(ctx, tx, userID, courseID)
		if err != nil {
			return err
		}

		if decision := ledger.DecideBooking(snapshot); !decision.Admitted() {
			return reject(decision.Reason)
		}

		booking, err = tx.CreateBooking(ctx, userID, courseID, s.now().UTC())
		if errors.Is(err, repository.ErrDuplicate) {
			return reject(ledger.ReasonAlreadyBooked)
		}
		return err
	})

	if reason, ok := asRejection(err); ok {
		return s.rejected(ctx, span, "request booking", reason), nil
	}
	if errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, s.fail(ctx, span, "request booking", err)
	}

	recordDecision("request booking", outcomeAdmitted)
	slog.InfoContext(ctx, "Booking admitted", "user_id", userID, "course_id", courseID, "booking_id", booking.ID)
	s.dispatch.Go(func(ctx context.Context, pub events.EventPublisher) error {
		return pub.PublishBookingAdmitted(ctx, booking)
	})

	return &BookingOutcome{Booking: booking}, nil
}

// bookingSnapshot locks the course row then the user row and reads every
// aggregate the admission decision needs.
func (s *bookingService) bookingSnapshot(ctx context.Context, tx repository.LedgerTx, userID, courseID uuid.UUID) (ledger.BookingSnapshot, error) {
	var snapshot ledger.BookingSnapshot

	course, err := tx.LockCourse(ctx, courseID)
	if err != nil || course == nil {
		return snapshot, err
	}
	snapshot.CourseExists = true
	snapshot.Occupancy.MaxParticipants = course.MaxParticipants

	found, err := tx.LockUser(ctx, userID)
	if err != nil {
		return snapshot, err
	}
	if !found {
		return snapshot, ErrUserNotFound
	}

	active, err := tx.FindActiveBooking(ctx, userID, courseID)
	if err != nil {
		return snapshot, err
	}
	snapshot.HasActiveBooking = active != nil

	if snapshot.Balance.Purchased, err = tx.SumPurchasedCredits(ctx, userID); err != nil {
		return snapshot, err
	}
	if snapshot.Balance.Consumed, err = tx.CountActiveBookingsByUser(ctx, userID); err != nil {
		return snapshot, err
	}
	if snapshot.Occupancy.Active, err = tx.CountActiveBookingsByCourse(ctx, courseID); err != nil {
		return snapshot, err
	}

	return snapshot, nil
}

func (s *bookingService) RequestCancellation(ctx context.Context, userID, courseID uuid.UUID) (*BookingOutcome, error) {
	ctx, span := tracer.Start(ctx, "BookingService.RequestCancellation", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("course_id", courseID.String()),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	unlock, err := s.locks.Lock(ctx, keylock.UserKey(userID), keylock.CourseKey(courseID))
	if err != nil {
		return nil, s.fail(ctx, span, "request cancellation", err)
	}
	defer unlock()

	var booking *model.CourseBooking
	err = s.store.InTx(ctx, func(tx repository.LedgerTx) error {
		if _, err := tx.LockCourse(ctx, courseID); err != nil {
			return err
		}
		if _, err := tx.LockUser(ctx, userID); err != nil {
			return err
		}

		active, err := tx.FindActiveBooking(ctx, userID, courseID)
		if err != nil {
			return err
		}
		if decision := ledger.DecideCancellation(active != nil); !decision.Admitted() {
			return reject(decision.Reason)
		}

		at := s.now().UTC()
		n, err := tx.CancelBooking(ctx, userID, courseID, at)
		if err != nil {
			return err
		}
		if n == 0 {
			return reject(ledger.ReasonBookingNotFound)
		}

		if err := active.Cancel(at); err != nil {
			return err
		}
		booking = active
		return nil
	})

	if reason, ok := asRejection(err); ok {
		return s.rejected(ctx, span, "request cancellation", reason), nil
	}
	if err != nil {
		return nil, s.fail(ctx, span, "request cancellation", err)
	}

	recordDecision("request cancellation", outcomeAdmitted)
	slog.InfoContext(ctx, "Booking cancelled", "user_id", userID, "course_id", courseID, "booking_id", booking.ID)
	s.dispatch.Go(func(ctx context.Context, pub events.EventPublisher) error {
		return pub.PublishBookingCancelled(ctx, booking)
	})

	return &BookingOutcome{Booking: booking}, nil
}

// Balance reads purchased and consumed credits under the user's row lock so
// both aggregates describe the same ledger state.
func (s *bookingService) Balance(ctx context.Context, userID uuid.UUID) (ledger.Balance, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var balance ledger.Balance
	err := s.store.InTx(ctx, func(tx repository.LedgerTx) error {
		found, err := tx.LockUser(ctx, userID)
		if err != nil {
			return err
		}
		if !found {
			return ErrUserNotFound
		}

		if balance.Purchased, err = tx.SumPurchasedCredits(ctx, userID); err != nil {
			return err
		}
		balance.Consumed, err = tx.CountActiveBookingsByUser(ctx, userID)
		return err
	})

	if errors.Is(err, ErrUserNotFound) {
		return ledger.Balance{}, err
	}
	if err != nil {
		return ledger.Balance{}, storeError("balance", err)
	}
	return balance, nil
}

func (s *bookingService) Occupancy(ctx context.Context, courseID uuid.UUID) (ledger.Occupancy, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	course, err := s.store.FindCourse(ctx, courseID)
	if err != nil {
		return ledger.Occupancy{}, storeError("occupancy", err)
	}
	if course == nil {
		return ledger.Occupancy{}, ErrCourseNotFound
	}

	active, err := s.store.CountActiveBookingsByCourse(ctx, courseID)
	if err != nil {
		return ledger.Occupancy{}, storeError("occupancy", err)
	}

	return ledger.Occupancy{Active: active, MaxParticipants: course.MaxParticipants}, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]model.CourseBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	bookings, err := s.store.ListBookingsByUser(ctx, userID)
	if err != nil {
		return nil, storeError("list bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) rejected(ctx context.Context, span trace.Span, op string, reason ledger.Reason) *BookingOutcome {
	recordDecision(op, string(reason))
	span.SetAttributes(attribute.String("rejected", string(reason)))
	slog.InfoContext(ctx, "Ledger request rejected", "operation", op, "reason", reason)
	return &BookingOutcome{Rejected: reason}
}

func (s *bookingService) fail(ctx context.Context, span trace.Span, op string, err error) error {
	recordDecision(op, outcomeStoreError)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	slog.ErrorContext(ctx, "Ledger store failure", "operation", op, "error", err)
	return storeError(op, err)
}
