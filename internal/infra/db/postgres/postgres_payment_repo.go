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

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const paymentColumns = `id, user_id, plan_id, amount, currency, status, gateway_order_id, gateway_payment_id, gateway_signature, webhook_verified, error_message, created_at, updated_at, completed_at`

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.PaymentTransaction) error {
	const q = `
INSERT INTO payment_transactions (
  id, user_id, plan_id, amount, currency, status, gateway_order_id, gateway_payment_id, gateway_signature, webhook_verified, error_message, created_at, updated_at, completed_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
) ON CONFLICT (id) DO UPDATE SET
  status=$6, gateway_order_id=$7, gateway_payment_id=$8, gateway_signature=$9, webhook_verified=$10, error_message=$11, updated_at=$13, completed_at=$14;`

	_, err := execSQL(ctx, r.pool, tx, q,
		p.ID, p.UserID, p.PlanID, p.Amount, p.Currency, p.Status,
		p.GatewayOrderID, p.GatewayPaymentID, p.GatewaySignature,
		p.WebhookVerified, p.ErrorMessage, p.CreatedAt, p.UpdatedAt, p.CompletedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PaymentTransaction, error) {
	q := `SELECT ` + paymentColumns + ` FROM payment_transactions WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	return r.scanOne(ctx, tx, q, id)
}

func (r *paymentRepo) FindByGatewayOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.PaymentTransaction, error) {
	q := `SELECT ` + paymentColumns + ` FROM payment_transactions WHERE gateway_order_id=$1 LIMIT 1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	return r.scanOne(ctx, tx, q, orderID)
}

func (r *paymentRepo) scanOne(ctx context.Context, tx repository.Tx, q string, arg interface{}) (*model.PaymentTransaction, error) {
	row, err := pickRow(ctx, r.pool, tx, q, arg)
	if err != nil {
		return nil, err
	}
	p := &model.PaymentTransaction{}
	if err := row.Scan(&p.ID, &p.UserID, &p.PlanID, &p.Amount, &p.Currency, &p.Status,
		&p.GatewayOrderID, &p.GatewayPaymentID, &p.GatewaySignature,
		&p.WebhookVerified, &p.ErrorMessage, &p.CreatedAt, &p.UpdatedAt, &p.CompletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

// MarkProcessing moves pending -> processing; the guard keeps a replayed
// client callback from touching settled rows.
func (r *paymentRepo) MarkProcessing(ctx context.Context, tx repository.Tx, id, gatewayPaymentID, gatewaySignature string) (bool, error) {
	const q = `
UPDATE payment_transactions
   SET status='processing',
       gateway_payment_id=$2,
       gateway_signature=$3,
       updated_at=NOW()
 WHERE id=$1
   AND status='pending';`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, gatewayPaymentID, gatewaySignature)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

// ClaimSuccess atomically settles the payment. The status guard makes the
// settlement idempotent under the gateway's at-least-once delivery: of two
// concurrent deliveries only one sees RowsAffected()==1.
func (r *paymentRepo) ClaimSuccess(ctx context.Context, tx repository.Tx, id, gatewayPaymentID string, completedAt time.Time) (bool, error) {
	const q = `
UPDATE payment_transactions
   SET status='success',
       gateway_payment_id=COALESCE(NULLIF($2,''), gateway_payment_id),
       webhook_verified=TRUE,
       completed_at=$3,
       updated_at=NOW()
 WHERE id=$1
   AND status <> 'success';`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, gatewayPaymentID, completedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *paymentRepo) MarkFailed(ctx context.Context, tx repository.Tx, id, errorMessage string, completedAt time.Time) error {
	const q = `
UPDATE payment_transactions
   SET status='failed',
       webhook_verified=TRUE,
       error_message=$2,
       completed_at=$3,
       updated_at=NOW()
 WHERE id=$1
   AND status <> 'success';`
	_, err := execSQL(ctx, r.pool, tx, q, id, errorMessage, completedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
