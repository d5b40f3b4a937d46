package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreditPackage struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	CreditAmount int             `db:"credit_amount" json:"credit_amount"`
	Price        decimal.Decimal `db:"price" json:"price"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// CreditPurchase is an immutable grant of credits. Amount and price are
// copied from the package at purchase time.
type CreditPurchase struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	UserID           uuid.UUID       `db:"user_id" json:"user_id"`
	CreditPackageID  uuid.UUID       `db:"credit_package_id" json:"credit_package_id"`
	PurchasedCredits int             `db:"purchased_credits" json:"purchased_credits"`
	PricePaid        decimal.Decimal `db:"price_paid" json:"price_paid"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}
