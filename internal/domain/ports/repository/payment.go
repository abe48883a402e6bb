package repository

import (
	"context"
	"time"

	"hairstyle-ai-studio/internal/domain/model"
)

// PaymentRepository is the port for the durable payment-attempt table.
type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.PaymentTransaction) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.PaymentTransaction, error)
	FindByGatewayOrderID(ctx context.Context, tx Tx, orderID string) (*model.PaymentTransaction, error)

	// MarkProcessing moves a pending payment to processing when the client
	// reports gateway completion. The transition is conditional on the current
	// status being pending; it reports whether a row changed.
	MarkProcessing(ctx context.Context, tx Tx, id, gatewayPaymentID, gatewaySignature string) (bool, error)

	// ClaimSuccess atomically settles the payment: it sets status=success,
	// webhook_verified=true and the completion timestamp only when the row is
	// not already successful, and reports whether this call claimed it. Under
	// concurrent duplicate deliveries exactly one caller observes true.
	ClaimSuccess(ctx context.Context, tx Tx, id, gatewayPaymentID string, completedAt time.Time) (bool, error)

	// MarkFailed records a gateway-reported failure. Rows already settled as
	// success are left untouched.
	MarkFailed(ctx context.Context, tx Tx, id, errorMessage string, completedAt time.Time) error
}
