// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hairstyle-ai-studio/internal/domain"
	"hairstyle-ai-studio/internal/domain/model"
	"hairstyle-ai-studio/internal/domain/ports/adapter"
	"hairstyle-ai-studio/internal/domain/ports/repository"
	"hairstyle-ai-studio/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// CheckoutIntent is what the SPA needs to open the gateway's checkout widget.
type CheckoutIntent struct {
	PaymentID      string
	GatewayOrderID string
	Amount         int64
	Currency       string
}

type PaymentUseCase interface {
	// Initiate creates a pending payment record and a matching gateway order.
	Initiate(ctx context.Context, userID, planID string) (*CheckoutIntent, error)
	// MarkProcessing records the client-reported gateway completion. It never
	// grants credits; only the verified webhook settles.
	MarkProcessing(ctx context.Context, userID, paymentID, gatewayPaymentID, gatewaySignature string) error
	// Get returns a payment record the owning user may inspect.
	Get(ctx context.Context, userID, paymentID string) (*model.PaymentTransaction, error)
}

type paymentUC struct {
	payments repository.PaymentRepository
	plans    repository.CreditPlanRepository
	gateway  adapter.CheckoutGateway
	log      *zerolog.Logger
}

func NewPaymentUseCase(payments repository.PaymentRepository, plans repository.CreditPlanRepository, gateway adapter.CheckoutGateway, logger *zerolog.Logger) *paymentUC {
	return &paymentUC{payments: payments, plans: plans, gateway: gateway, log: logger}
}

func (u *paymentUC) Initiate(ctx context.Context, userID, planID string) (*CheckoutIntent, error) {
	if userID == "" || planID == "" {
		return nil, domain.ErrInvalidArgument
	}
	plan, err := u.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	// The record id is generated before checkout and rides along in the
	// order notes so the webhook can correlate without guessing.
	paymentID := uuid.NewString()
	notes := map[string]string{
		"payment_record_id": paymentID,
		"user_id":           userID,
		"plan_id":           planID,
	}
	order, err := u.gateway.CreateOrder(ctx, plan.Price, plan.Currency, paymentID, notes)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &model.PaymentTransaction{
		ID:             paymentID,
		UserID:         userID,
		PlanID:         planID,
		Amount:         plan.Price,
		Currency:       plan.Currency,
		Status:         model.PaymentStatusPending,
		GatewayOrderID: order.OrderID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := u.payments.Save(ctx, nil, p); err != nil {
		return nil, err
	}
	metrics.IncPayment(string(model.PaymentStatusPending))
	u.log.Info().Str("payment_id", paymentID).Str("plan_id", planID).Str("order_id", order.OrderID).Msg("checkout initiated")

	return &CheckoutIntent{
		PaymentID:      paymentID,
		GatewayOrderID: order.OrderID,
		Amount:         plan.Price,
		Currency:       plan.Currency,
	}, nil
}

func (u *paymentUC) MarkProcessing(ctx context.Context, userID, paymentID, gatewayPaymentID, gatewaySignature string) error {
	p, err := u.payments.FindByID(ctx, nil, paymentID)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return domain.ErrNotFound
	}
	moved, err := u.payments.MarkProcessing(ctx, nil, paymentID, gatewayPaymentID, gatewaySignature)
	if err != nil {
		return err
	}
	if !moved {
		// already processing or settled; harmless replay from the client
		u.log.Debug().Str("payment_id", paymentID).Str("status", string(p.Status)).Msg("processing transition skipped")
		return nil
	}
	metrics.IncPayment(string(model.PaymentStatusProcessing))
	return nil
}

func (u *paymentUC) Get(ctx context.Context, userID, paymentID string) (*model.PaymentTransaction, error) {
	p, err := u.payments.FindByID(ctx, nil, paymentID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
