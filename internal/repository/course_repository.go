package repository

import (
	"context"
	"errors"

	"booking-service/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

var (
	ErrUnknownCoach = errors.New("course coach does not exist")
	ErrUnknownSkill = errors.New("course skill does not exist")
)

// Postgres names for the inline REFERENCES clauses on courses.
const (
	courseCoachFK = "courses_coach_id_fkey"
	courseSkillFK = "courses_skill_id_fkey"
)

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) (*model.Course, error)
	ListDetails(ctx context.Context) ([]model.CourseDetails, error)
}

type postgresCourseRepository struct {
	db *sqlx.DB
}

func NewPostgresCourseRepository(db *sqlx.DB) CourseRepository {
	return &postgresCourseRepository{db: db}
}

func (r *postgresCourseRepository) Create(ctx context.Context, course *model.Course) (*model.Course, error) {
	query := `
		INSERT INTO courses (coach_id, skill_id, name, description, start_at, end_at, max_participants)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		course.CoachID, course.SkillID, course.Name, course.Description, course.StartAt, course.EndAt, course.MaxParticipants,
	)
	if err := row.Scan(&course.ID, &course.CreatedAt); err != nil {
		return nil, translateCourseInsert(err)
	}

	return course, nil
}

func translateCourseInsert(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		switch pgErr.ConstraintName {
		case courseCoachFK:
			return ErrUnknownCoach
		case courseSkillFK:
			return ErrUnknownSkill
		}
	}
	return translate(err)
}

func (r *postgresCourseRepository) ListDetails(ctx context.Context) ([]model.CourseDetails, error) {
	courses := []model.CourseDetails{}
	query := `
		SELECT
			c.id,
			COALESCE(u.name, '') AS coach_name,
			COALESCE(s.name, '') AS skill_name,
			c.name,
			c.description,
			c.start_at,
			c.end_at,
			c.max_participants,
			(SELECT COUNT(*) FROM course_bookings b WHERE b.course_id = c.id AND b.cancelled_at IS NULL) AS active_bookings
		FROM courses c
		LEFT JOIN users u ON c.coach_id = u.id
		LEFT JOIN skills s ON c.skill_id = s.id
		ORDER BY c.start_at ASC
	`
	err := r.db.SelectContext(ctx, &courses, query)
	return courses, err
}
