package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"booking-service/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	queryFindCourse = `SELECT id, coach_id, skill_id, name, description, start_at, end_at, max_participants, created_at FROM courses WHERE id = $1`
	queryLockCourse = queryFindCourse + ` FOR UPDATE`
	queryLockUser   = `SELECT id FROM users WHERE id = $1 FOR UPDATE`

	querySumPurchasedCredits = `SELECT COALESCE(SUM(purchased_credits), 0) FROM credit_purchases WHERE user_id = $1`
	queryCountActiveByUser   = `SELECT COUNT(*) FROM course_bookings WHERE user_id = $1 AND cancelled_at IS NULL`
	queryCountActiveByCourse = `SELECT COUNT(*) FROM course_bookings WHERE course_id = $1 AND cancelled_at IS NULL`

	queryFindActiveBooking  = `SELECT id, user_id, course_id, created_at, cancelled_at FROM course_bookings WHERE user_id = $1 AND course_id = $2 AND cancelled_at IS NULL`
	queryListBookingsByUser = `SELECT id, user_id, course_id, created_at, cancelled_at FROM course_bookings WHERE user_id = $1 ORDER BY created_at DESC`
	queryCreateBooking      = `INSERT INTO course_bookings (user_id, course_id, created_at) VALUES ($1, $2, $3) RETURNING id`
	queryCancelBooking      = `UPDATE course_bookings SET cancelled_at = $3 WHERE user_id = $1 AND course_id = $2 AND cancelled_at IS NULL`

	queryFindPackage    = `SELECT id, name, credit_amount, price, created_at FROM credit_packages WHERE id = $1`
	queryCreatePurchase = `INSERT INTO credit_purchases (user_id, credit_package_id, purchased_credits, price_paid, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
)

// LedgerReader holds the aggregate and lookup reads over purchases and bookings.
// Lookups return nil without error when the row does not exist.
type LedgerReader interface {
	FindCourse(ctx context.Context, courseID uuid.UUID) (*model.Course, error)
	FindPackage(ctx context.Context, packageID uuid.UUID) (*model.CreditPackage, error)
	FindActiveBooking(ctx context.Context, userID, courseID uuid.UUID) (*model.CourseBooking, error)
	SumPurchasedCredits(ctx context.Context, userID uuid.UUID) (int, error)
	CountActiveBookingsByUser(ctx context.Context, userID uuid.UUID) (int, error)
	CountActiveBookingsByCourse(ctx context.Context, courseID uuid.UUID) (int, error)
}

// LedgerTx is one database transaction over the ledger. Row locks taken by
// LockCourse and LockUser are held until the transaction ends; callers lock
// the course before the user.
type LedgerTx interface {
	LedgerReader
	LockCourse(ctx context.Context, courseID uuid.UUID) (*model.Course, error)
	LockUser(ctx context.Context, userID uuid.UUID) (bool, error)
	CreateBooking(ctx context.Context, userID, courseID uuid.UUID, at time.Time) (*model.CourseBooking, error)
	CancelBooking(ctx context.Context, userID, courseID uuid.UUID, at time.Time) (int64, error)
	CreatePurchase(ctx context.Context, purchase *model.CreditPurchase) (*model.CreditPurchase, error)
}

type LedgerStore interface {
	LedgerReader
	ListBookingsByUser(ctx context.Context, userID uuid.UUID) ([]model.CourseBooking, error)
	InTx(ctx context.Context, fn func(tx LedgerTx) error) error
}

type ledgerQueries struct {
	q sqlx.ExtContext
}

type postgresLedgerStore struct {
	ledgerQueries
	db *sqlx.DB
}

type postgresLedgerTx struct {
	ledgerQueries
}

func NewPostgresLedgerStore(db *sqlx.DB) LedgerStore {
	return &postgresLedgerStore{ledgerQueries: ledgerQueries{q: db}, db: db}
}

func (s *postgresLedgerStore) InTx(ctx context.Context, fn func(tx LedgerTx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&postgresLedgerTx{ledgerQueries{q: tx}}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *postgresLedgerStore) ListBookingsByUser(ctx context.Context, userID uuid.UUID) ([]model.CourseBooking, error) {
	bookings := []model.CourseBooking{}
	err := s.db.SelectContext(ctx, &bookings, queryListBookingsByUser, userID)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (l ledgerQueries) FindCourse(ctx context.Context, courseID uuid.UUID) (*model.Course, error) {
	return l.getCourse(ctx, queryFindCourse, courseID)
}

func (l ledgerQueries) LockCourse(ctx context.Context, courseID uuid.UUID) (*model.Course, error) {
	return l.getCourse(ctx, queryLockCourse, courseID)
}

func (l ledgerQueries) getCourse(ctx context.Context, query string, courseID uuid.UUID) (*model.Course, error) {
	var course model.Course
	err := sqlx.GetContext(ctx, l.q, &course, query, courseID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &course, nil
}

func (l ledgerQueries) LockUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var id uuid.UUID
	err := sqlx.GetContext(ctx, l.q, &id, queryLockUser, userID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (l ledgerQueries) FindPackage(ctx context.Context, packageID uuid.UUID) (*model.CreditPackage, error) {
	var pkg model.CreditPackage
	err := sqlx.GetContext(ctx, l.q, &pkg, queryFindPackage, packageID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &pkg, nil
}

func (l ledgerQueries) FindActiveBooking(ctx context.Context, userID, courseID uuid.UUID) (*model.CourseBooking, error) {
	var booking model.CourseBooking
	err := sqlx.GetContext(ctx, l.q, &booking, queryFindActiveBooking, userID, courseID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &booking, nil
}

func (l ledgerQueries) SumPurchasedCredits(ctx context.Context, userID uuid.UUID) (int, error) {
	return l.count(ctx, querySumPurchasedCredits, userID)
}

func (l ledgerQueries) CountActiveBookingsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return l.count(ctx, queryCountActiveByUser, userID)
}

func (l ledgerQueries) CountActiveBookingsByCourse(ctx context.Context, courseID uuid.UUID) (int, error) {
	return l.count(ctx, queryCountActiveByCourse, courseID)
}

func (l ledgerQueries) count(ctx context.Context, query string, id uuid.UUID) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, l.q, &n, query, id); err != nil {
		return 0, err
	}
	return n, nil
}

func (l ledgerQueries) CreateBooking(ctx context.Context, userID, courseID uuid.UUID, at time.Time) (*model.CourseBooking, error) {
	booking := &model.CourseBooking{
		UserID:    userID,
		CourseID:  courseID,
		CreatedAt: at,
	}

	err := l.q.QueryRowxContext(ctx, queryCreateBooking, userID, courseID, at).Scan(&booking.ID)
	if err != nil {
		return nil, translate(err)
	}

	return booking, nil
}

func (l ledgerQueries) CancelBooking(ctx context.Context, userID, courseID uuid.UUID, at time.Time) (int64, error) {
	res, err := l.q.ExecContext(ctx, queryCancelBooking, userID, courseID, at)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (l ledgerQueries) CreatePurchase(ctx context.Context, purchase *model.CreditPurchase) (*model.CreditPurchase, error) {
	err := l.q.QueryRowxContext(ctx, queryCreatePurchase,
		purchase.UserID, purchase.CreditPackageID, purchase.PurchasedCredits, purchase.PricePaid, purchase.CreatedAt,
	).Scan(&purchase.ID)

	if err != nil {
		return nil, translate(err)
	}

	return purchase, nil
}
