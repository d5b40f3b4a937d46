package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateSkillsTable, downCreateSkillsTable)
}

func upCreateSkillsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE skills (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
		);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateSkillsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS skills;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
