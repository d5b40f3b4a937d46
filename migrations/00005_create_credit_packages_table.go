package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCreditPackagesTable, downCreateCreditPackagesTable)
}

func upCreateCreditPackagesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE credit_packages (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL UNIQUE,
			credit_amount INTEGER NOT NULL CHECK (credit_amount > 0),
			price NUMERIC(10, 2) NOT NULL CHECK (price > 0),
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
		);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateCreditPackagesTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS credit_packages;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
