package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"booking-service/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CoachRepository interface {
	List(ctx context.Context) ([]model.CoachSummary, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.CoachDetails, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Coach, error)
	Promote(ctx context.Context, coach *model.Coach) (*model.Coach, error)
	UpdateProfileImage(ctx context.Context, userID uuid.UUID, imageURL string) error
}

type postgresCoachRepository struct {
	db *sqlx.DB
}

func NewPostgresCoachRepository(db *sqlx.DB) CoachRepository {
	return &postgresCoachRepository{db: db}
}

func (r *postgresCoachRepository) List(ctx context.Context) ([]model.CoachSummary, error) {
	coaches := []model.CoachSummary{}
	query := `
		SELECT c.id, u.name
		FROM coaches c
		JOIN users u ON c.user_id = u.id
		ORDER BY c.created_at ASC
	`
	err := r.db.SelectContext(ctx, &coaches, query)
	return coaches, err
}

func (r *postgresCoachRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CoachDetails, error) {
	var coach model.CoachDetails
	query := `
		SELECT c.id, c.user_id, c.experience_years, c.description, c.profile_image_url, c.created_at, c.updated_at,
			u.name AS user_name, u.role AS user_role
		FROM coaches c
		JOIN users u ON c.user_id = u.id
		WHERE c.id = $1
	`
	err := r.db.GetContext(ctx, &coach, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &coach, nil
}

func (r *postgresCoachRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Coach, error) {
	var coach model.Coach
	query := `SELECT id, user_id, experience_years, description, profile_image_url, created_at, updated_at FROM coaches WHERE user_id = $1`
	err := r.db.GetContext(ctx, &coach, query, userID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &coach, nil
}

// Promote switches the user's role to COACH and creates the coach profile in one transaction.
func (r *postgresCoachRepository) Promote(ctx context.Context, coach *model.Coach) (*model.Coach, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE users SET role = $1, updated_at = now() WHERE id = $2`, model.RoleCoach, coach.UserID)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrNotFound
	}

	query := `
		INSERT INTO coaches (user_id, experience_years, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRowxContext(ctx, query, coach.UserID, coach.ExperienceYears, coach.Description).
		Scan(&coach.ID, &coach.CreatedAt, &coach.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return coach, nil
}

func (r *postgresCoachRepository) UpdateProfileImage(ctx context.Context, userID uuid.UUID, imageURL string) error {
	query := `UPDATE coaches SET profile_image_url = $1, updated_at = now() WHERE user_id = $2`
	res, err := r.db.ExecContext(ctx, query, imageURL, userID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
