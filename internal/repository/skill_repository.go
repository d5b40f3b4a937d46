package repository

import (
	"context"

	"booking-service/internal/model"

	"github.com/jmoiron/sqlx"
)

type SkillRepository interface {
	List(ctx context.Context) ([]model.Skill, error)
	Create(ctx context.Context, name string) (*model.Skill, error)
}

type postgresSkillRepository struct {
	db *sqlx.DB
}

func NewPostgresSkillRepository(db *sqlx.DB) SkillRepository {
	return &postgresSkillRepository{db: db}
}

func (r *postgresSkillRepository) List(ctx context.Context) ([]model.Skill, error) {
	skills := []model.Skill{}
	err := r.db.SelectContext(ctx, &skills, `SELECT id, name, created_at FROM skills ORDER BY name`)
	return skills, err
}

func (r *postgresSkillRepository) Create(ctx context.Context, name string) (*model.Skill, error) {
	skill := &model.Skill{Name: name}
	err := r.db.QueryRowxContext(ctx, `INSERT INTO skills (name) VALUES ($1) RETURNING id, created_at`, name).
		Scan(&skill.ID, &skill.CreatedAt)

	if err != nil {
		return nil, translate(err)
	}

	return skill, nil
}
