package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCreditPurchasesTable, downCreateCreditPurchasesTable)
}

func upCreateCreditPurchasesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE credit_purchases (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id),
			credit_package_id UUID NOT NULL,
			purchased_credits INTEGER NOT NULL CHECK (purchased_credits > 0),
			price_paid NUMERIC(10, 2) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_credit_purchases_user_id ON credit_purchases(user_id);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateCreditPurchasesTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS credit_purchases;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
