package repository

import (
	"context"

	"booking-service/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CreditPackageRepository interface {
	List(ctx context.Context) ([]model.CreditPackage, error)
	Create(ctx context.Context, pkg *model.CreditPackage) (*model.CreditPackage, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type postgresCreditPackageRepository struct {
	db *sqlx.DB
}

func NewPostgresCreditPackageRepository(db *sqlx.DB) CreditPackageRepository {
	return &postgresCreditPackageRepository{db: db}
}

func (r *postgresCreditPackageRepository) List(ctx context.Context) ([]model.CreditPackage, error) {
	packages := []model.CreditPackage{}
	err := r.db.SelectContext(ctx, &packages, `SELECT id, name, credit_amount, price, created_at FROM credit_packages ORDER BY created_at ASC`)
	return packages, err
}

func (r *postgresCreditPackageRepository) Create(ctx context.Context, pkg *model.CreditPackage) (*model.CreditPackage, error) {
	query := `INSERT INTO credit_packages (name, credit_amount, price) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.db.QueryRowxContext(ctx, query, pkg.Name, pkg.CreditAmount, pkg.Price).Scan(&pkg.ID, &pkg.CreatedAt)

	if err != nil {
		return nil, translate(err)
	}

	return pkg, nil
}

// Delete removes the catalog entry only; issued purchases carry their own copies.
func (r *postgresCreditPackageRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM credit_packages WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
