package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCourseBookingsTable, downCreateCourseBookingsTable)
}

func upCreateCourseBookingsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE course_bookings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id),
			course_id UUID NOT NULL REFERENCES courses(id),
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
			cancelled_at TIMESTAMP WITH TIME ZONE
		);

		CREATE UNIQUE INDEX IF NOT EXISTS uq_course_bookings_active
			ON course_bookings(user_id, course_id) WHERE cancelled_at IS NULL;
		CREATE INDEX IF NOT EXISTS idx_course_bookings_course_active
			ON course_bookings(course_id) WHERE cancelled_at IS NULL;
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateCourseBookingsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS course_bookings;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
