package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCoachesTable, downCreateCoachesTable)
}

func upCreateCoachesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE coaches (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			experience_years INTEGER NOT NULL DEFAULT 0 CHECK (experience_years >= 0),
			description TEXT NOT NULL DEFAULT '',
			profile_image_url TEXT,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
		);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateCoachesTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS coaches;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
