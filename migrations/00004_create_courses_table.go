package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCoursesTable, downCreateCoursesTable)
}

func upCreateCoursesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE courses (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			coach_id UUID NOT NULL REFERENCES users(id),
			skill_id UUID NOT NULL REFERENCES skills(id),
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			start_at TIMESTAMP WITH TIME ZONE NOT NULL,
			end_at TIMESTAMP WITH TIME ZONE NOT NULL,
			max_participants INTEGER NOT NULL CHECK (max_participants > 0),
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
			CHECK (end_at > start_at)
		);

		CREATE INDEX IF NOT EXISTS idx_courses_coach_id ON courses(coach_id);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateCoursesTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS courses;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
