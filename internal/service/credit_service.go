package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"booking-service/internal/events"
	"booking-service/internal/keylock"
	"booking-service/internal/ledger"
	"booking-service/internal/model"
	"booking-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrInvalidPackage   = errors.New("credit package needs a name, a positive whole credit amount and a positive price")
	ErrPackageNameTaken = errors.New("credit package name already exists")
	ErrPackageNotFound  = errors.New("credit package not found")
)

type PurchaseOutcome struct {
	Purchase *model.CreditPurchase
	Rejected ledger.Reason
}

func (o *PurchaseOutcome) Admitted() bool {
	return o.Rejected == ""
}

type CreditService interface {
	PurchaseCredits(ctx context.Context, userID, packageID uuid.UUID) (*PurchaseOutcome, error)
	ListPackages(ctx context.Context) ([]model.CreditPackage, error)
	CreatePackage(ctx context.Context, name string, creditAmount, price decimal.Decimal) (*model.CreditPackage, error)
	DeletePackage(ctx context.Context, packageID uuid.UUID) error
}

type creditService struct {
	store    repository.LedgerStore
	packages repository.CreditPackageRepository
	locks    *keylock.Locker
	dispatch *Dispatcher
	timeout  time.Duration
	now      func() time.Time
}

func NewCreditService(
	store repository.LedgerStore,
	packages repository.CreditPackageRepository,
	locks *keylock.Locker,
	dispatch *Dispatcher,
	timeout time.Duration,
) CreditService {
	return &creditService{
		store:    store,
		packages: packages,
		locks:    locks,
		dispatch: dispatch,
		timeout:  timeout,
		now:      time.Now,
	}
}

func (s *creditService) PurchaseCredits(ctx context.Context, userID, packageID uuid.UUID) (*PurchaseOutcome, error) {
	ctx, span := tracer.Start(ctx, "CreditService.PurchaseCredits", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("credit_package_id", packageID.String()),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	const op = "purchase credits"

	unlock, err := s.locks.Lock(ctx, keylock.UserKey(userID))
	if err != nil {
		recordDecision(op, outcomeStoreError)
		return nil, storeError(op, err)
	}
	defer unlock()

	var purchase *model.CreditPurchase
	err = s.store.InTx(ctx, func(tx repository.LedgerTx) error {
		found, err := tx.LockUser(ctx, userID)
		if err != nil {
			return err
		}
		if !found {
			return ErrUserNotFound
		}

		pkg, err := tx.FindPackage(ctx, packageID)
		if err != nil {
			return err
		}
		if decision := ledger.DecidePurchase(pkg != nil); !decision.Admitted() {
			return reject(decision.Reason)
		}

		purchase, err = tx.CreatePurchase(ctx, &model.CreditPurchase{
			UserID:           userID,
			CreditPackageID:  pkg.ID,
			PurchasedCredits: pkg.CreditAmount,
			PricePaid:        pkg.Price,
			CreatedAt:        s.now().UTC(),
		})
		return err
	})

	if reason, ok := asRejection(err); ok {
		recordDecision(op, string(reason))
		slog.InfoContext(ctx, "Ledger request rejected", "operation", op, "reason", reason)
		return &PurchaseOutcome{Rejected: reason}, nil
	}
	if errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if err != nil {
		recordDecision(op, outcomeStoreError)
		span.RecordError(err)
		slog.ErrorContext(ctx, "Ledger store failure", "operation", op, "error", err)
		return nil, storeError(op, err)
	}

	recordDecision(op, outcomeAdmitted)
	slog.InfoContext(ctx, "Credits purchased", "user_id", userID, "purchase_id", purchase.ID, "credits", purchase.PurchasedCredits)
	s.dispatch.Go(func(ctx context.Context, pub events.EventPublisher) error {
		return pub.PublishCreditPurchased(ctx, purchase)
	})

	return &PurchaseOutcome{Purchase: purchase}, nil
}

func (s *creditService) ListPackages(ctx context.Context) ([]model.CreditPackage, error) {
	return s.packages.List(ctx)
}

// CreatePackage rejects fractional or non-positive credit amounts and non-positive prices.
func (s *creditService) CreatePackage(ctx context.Context, name string, creditAmount, price decimal.Decimal) (*model.CreditPackage, error) {
	name = strings.TrimSpace(name)
	if name == "" || !creditAmount.IsInteger() || !creditAmount.IsPositive() || !price.IsPositive() {
		return nil, ErrInvalidPackage
	}
	if creditAmount.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return nil, ErrInvalidPackage
	}

	pkg, err := s.packages.Create(ctx, &model.CreditPackage{
		Name:         name,
		CreditAmount: int(creditAmount.IntPart()),
		Price:        price,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrPackageNameTaken
	}
	if err != nil {
		return nil, err
	}

	return pkg, nil
}

func (s *creditService) DeletePackage(ctx context.Context, packageID uuid.UUID) error {
	n, err := s.packages.Delete(ctx, packageID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPackageNotFound
	}
	return nil
}
