package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"hairstyle-ai-studio/internal/domain"
	"hairstyle-ai-studio/internal/domain/model"
	"hairstyle-ai-studio/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.CreditPlanRepository = (*PostgresPlanRepo)(nil)

type PostgresPlanRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPlanRepo(pool *pgxpool.Pool) *PostgresPlanRepo {
	return &PostgresPlanRepo{pool: pool}
}

func (r *PostgresPlanRepo) Save(ctx context.Context, plan *model.CreditPlan) error {
	const sql = `
INSERT INTO credit_plans (id, name, credits, price, currency, duration_days, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE
  SET name          = EXCLUDED.name,
      credits       = EXCLUDED.credits,
      price         = EXCLUDED.price,
      currency      = EXCLUDED.currency,
      duration_days = EXCLUDED.duration_days;
`
	_, err := r.pool.Exec(ctx, sql,
		plan.ID, plan.Name, plan.Credits, plan.Price, plan.Currency, plan.DurationDays, plan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Save plan: %w", err)
	}
	return nil
}

func (r *PostgresPlanRepo) FindByID(ctx context.Context, id string) (*model.CreditPlan, error) {
	const sql = `
SELECT id, name, credits, price, currency, duration_days, created_at
  FROM credit_plans
 WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, sql, id)
	var p model.CreditPlan
	if err := row.Scan(&p.ID, &p.Name, &p.Credits, &p.Price, &p.Currency, &p.DurationDays, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("FindByID plan: %w", err)
	}
	return &p, nil
}

func (r *PostgresPlanRepo) ListAll(ctx context.Context) ([]*model.CreditPlan, error) {
	const sql = `
SELECT id, name, credits, price, currency, duration_days, created_at
  FROM credit_plans
 ORDER BY price ASC;
`
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("ListAll plans: %w", err)
	}
	defer rows.Close()
	var out []*model.CreditPlan
	for rows.Next() {
		var p model.CreditPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Credits, &p.Price, &p.Currency, &p.DurationDays, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, nil
}

func (r *PostgresPlanRepo) Delete(ctx context.Context, id string) error {
	// keep plans referenced by settled payments; a payment must never point
	// at a vanished plan
	const countSQL = `SELECT COUNT(1) FROM payment_transactions WHERE plan_id = $1 AND status <> 'failed';`
	var cnt int
	if err := r.pool.QueryRow(ctx, countSQL, id).Scan(&cnt); err != nil {
		return fmt.Errorf("Delete plan: count references: %w", err)
	}
	if cnt > 0 {
		return domain.ErrAlreadyExists
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM credit_plans WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("Delete plan: %w", err)
	}
	return nil
}
