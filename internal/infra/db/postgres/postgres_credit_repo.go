package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"hairstyle-ai-studio/internal/domain"
	"hairstyle-ai-studio/internal/domain/model"
	"hairstyle-ai-studio/internal/domain/ports/repository"
)

var _ repository.CreditRepository = (*creditRepo)(nil)

type creditRepo struct{ pool *pgxpool.Pool }

func NewCreditRepo(pool *pgxpool.Pool) *creditRepo {
	return &creditRepo{pool: pool}
}

func (r *creditRepo) GetBalance(ctx context.Context, tx repository.Tx, userID string) (*model.UserCredits, error) {
	const q = `SELECT user_id, credits, plan_type, plan_expires_at, updated_at FROM user_credits WHERE user_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	uc := &model.UserCredits{}
	if err := row.Scan(&uc.UserID, &uc.Credits, &uc.PlanType, &uc.PlanExpiresAt, &uc.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return uc, nil
}

// GrantCredits increments the balance in a single statement; concurrent
// grants and deductions serialize on the row, so there is no lost update.
func (r *creditRepo) GrantCredits(ctx context.Context, tx repository.Tx, userID string, amount int64, planType string, planExpiresAt time.Time) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidArgument
	}
	const q = `
INSERT INTO user_credits (user_id, credits, plan_type, plan_expires_at, updated_at)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (user_id) DO UPDATE
   SET credits         = user_credits.credits + EXCLUDED.credits,
       plan_type       = EXCLUDED.plan_type,
       plan_expires_at = EXCLUDED.plan_expires_at,
       updated_at      = NOW()
RETURNING credits;`
	row, err := pickRow(ctx, r.pool, tx, q, userID, amount, planType, planExpiresAt)
	if err != nil {
		return 0, err
	}
	var balance int64
	if err := row.Scan(&balance); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return balance, nil
}

// DeductCredit decrements conditionally; the credits > 0 guard keeps the
// balance non-negative without a prior read.
func (r *creditRepo) DeductCredit(ctx context.Context, tx repository.Tx, userID string) (int64, error) {
	const q = `
UPDATE user_credits
   SET credits = credits - 1,
       updated_at = NOW()
 WHERE user_id = $1
   AND credits > 0
RETURNING credits;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return 0, err
	}
	var balance int64
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrInsufficientCredits
		}
		return 0, domain.ErrReadDatabaseRow
	}
	return balance, nil
}

func (r *creditRepo) AppendTransaction(ctx context.Context, tx repository.Tx, entry *model.CreditTransaction) error {
	const q = `
INSERT INTO credit_transactions (
  id, user_id, transaction_type, credits_change, balance_after, description, related_to, metadata, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);`
	_, err := execSQL(ctx, r.pool, tx, q,
		entry.ID, entry.UserID, entry.Type, entry.CreditsChange, entry.BalanceAfter,
		entry.Description, entry.RelatedTo, entry.Metadata, entry.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *creditRepo) ListTransactions(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.CreditTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, user_id, transaction_type, credits_change, balance_after, description, related_to, metadata, created_at
  FROM credit_transactions
 WHERE user_id=$1
 ORDER BY created_at DESC
 LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID, limit)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.CreditTransaction
	for rows.Next() {
		e := new(model.CreditTransaction)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Type, &e.CreditsChange, &e.BalanceAfter,
			&e.Description, &e.RelatedTo, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, e)
	}
	return out, nil
}
