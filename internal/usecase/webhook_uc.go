// File: internal/usecase/webhook_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"hairstyle-ai-studio/internal/domain"
	"hairstyle-ai-studio/internal/domain/model"
	"hairstyle-ai-studio/internal/domain/ports/repository"
	"hairstyle-ai-studio/internal/infra/metrics"
)

// Compile-time check
var _ WebhookUseCase = (*webhookUC)(nil)

// CaptureEvent is the normalized payment.captured payload after signature
// verification. The notes fields may be empty when the gateway dropped them;
// settlement then falls back to the order-id lookup.
type CaptureEvent struct {
	GatewayPaymentID string
	GatewayOrderID   string
	Amount           int64
	PaymentRecordID  string
	UserID           string
	PlanID           string
}

// FailureEvent is the normalized payment.failed payload.
type FailureEvent struct {
	GatewayPaymentID string
	GatewayOrderID   string
	PaymentRecordID  string
	ErrorDescription string
}

type SettleOutcome string

const (
	OutcomeSettled          SettleOutcome = "settled"
	OutcomeAlreadyProcessed SettleOutcome = "already_processed"
	OutcomeUnresolved       SettleOutcome = "unresolved"
)

type SettleResult struct {
	Outcome    SettleOutcome
	PaymentID  string
	NewBalance int64
}

type WebhookUseCase interface {
	// SettleCapture applies the financial effect of a verified
	// payment.captured event exactly once.
	SettleCapture(ctx context.Context, ev CaptureEvent) (*SettleResult, error)
	// MarkFailure records a verified payment.failed event. It reports whether
	// the event could be correlated to a payment record.
	MarkFailure(ctx context.Context, ev FailureEvent) (bool, error)
}

type webhookUC struct {
	payments repository.PaymentRepository
	plans    repository.CreditPlanRepository
	credits  repository.CreditRepository
	tm       repository.TransactionManager
	log      *zerolog.Logger
}

func NewWebhookUseCase(
	payments repository.PaymentRepository,
	plans repository.CreditPlanRepository,
	credits repository.CreditRepository,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *webhookUC {
	return &webhookUC{payments: payments, plans: plans, credits: credits, tm: tm, log: logger}
}

// resolveRecord fills in the correlation ids. Notes attached at checkout are
// authoritative; when they are missing the gateway order id is the fallback.
func (u *webhookUC) resolveCapture(ctx context.Context, ev *CaptureEvent) error {
	if ev.PaymentRecordID != "" && ev.UserID != "" && ev.PlanID != "" {
		return nil
	}
	if ev.GatewayOrderID == "" {
		return domain.ErrUnresolvedPayment
	}
	p, err := u.payments.FindByGatewayOrderID(ctx, nil, ev.GatewayOrderID)
	if err != nil {
		return domain.ErrUnresolvedPayment
	}
	ev.PaymentRecordID = p.ID
	ev.UserID = p.UserID
	ev.PlanID = p.PlanID
	return nil
}

// SettleCapture runs the whole settlement in one transaction: the conditional
// status claim, the balance increment, the ledger append, and the plan
// metadata update commit or fail together. The claim's rows-affected guard is
// what makes redelivery (and concurrent duplicate delivery) a no-op.
func (u *webhookUC) SettleCapture(ctx context.Context, ev CaptureEvent) (*SettleResult, error) {
	if err := u.resolveCapture(ctx, &ev); err != nil {
		u.log.Warn().
			Str("gateway_payment_id", ev.GatewayPaymentID).
			Str("gateway_order_id", ev.GatewayOrderID).
			Msg("capture event could not be correlated; acknowledging without credit")
		return &SettleResult{Outcome: OutcomeUnresolved}, nil
	}

	// Plan lookup is read-only and cacheable; a payment referencing a missing
	// plan is corrupt configuration and must surface as a server error.
	plan, err := u.plans.FindByID(ctx, ev.PlanID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, fmt.Errorf("%w: plan %s for payment %s", domain.ErrPlanNotFound, ev.PlanID, ev.PaymentRecordID)
		}
		return nil, err
	}

	res := &SettleResult{PaymentID: ev.PaymentRecordID}
	now := time.Now()

	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		claimed, err := u.payments.ClaimSuccess(ctx, tx, ev.PaymentRecordID, ev.GatewayPaymentID, now)
		if err != nil {
			return err
		}
		if !claimed {
			res.Outcome = OutcomeAlreadyProcessed
			return nil
		}

		balance, err := u.credits.GrantCredits(ctx, tx, ev.UserID, plan.Credits, plan.Name, plan.ExpiryFrom(now))
		if err != nil {
			return err
		}

		entry, err := model.NewCreditTransaction(
			ev.UserID,
			model.CreditTransactionPurchase,
			plan.Credits,
			balance,
			fmt.Sprintf("Purchased %s plan (%d credits)", plan.Name, plan.Credits),
			"payment",
			map[string]interface{}{
				"payment_record_id":  ev.PaymentRecordID,
				"plan_id":            ev.PlanID,
				"gateway_payment_id": ev.GatewayPaymentID,
			},
		)
		if err != nil {
			return err
		}
		if err := u.credits.AppendTransaction(ctx, tx, entry); err != nil {
			return err
		}

		res.Outcome = OutcomeSettled
		res.NewBalance = balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Outcome == OutcomeSettled {
		metrics.IncPayment(string(model.PaymentStatusSuccess))
		metrics.AddCreditsGranted(plan.Name, plan.Credits)
		metrics.AddPaymentRevenue(plan.Currency, ev.Amount)
		u.log.Info().
			Str("payment_id", ev.PaymentRecordID).
			Str("user_id", ev.UserID).
			Int64("credits", plan.Credits).
			Int64("balance", res.NewBalance).
			Msg("payment settled")
	}
	return res, nil
}

func (u *webhookUC) MarkFailure(ctx context.Context, ev FailureEvent) (bool, error) {
	id := ev.PaymentRecordID
	if id == "" {
		if ev.GatewayOrderID == "" {
			return false, nil
		}
		p, err := u.payments.FindByGatewayOrderID(ctx, nil, ev.GatewayOrderID)
		if err != nil {
			return false, nil
		}
		id = p.ID
	}
	if err := u.payments.MarkFailed(ctx, nil, id, ev.ErrorDescription, time.Now()); err != nil {
		return true, err
	}
	metrics.IncPayment(string(model.PaymentStatusFailed))
	u.log.Info().Str("payment_id", id).Str("reason", ev.ErrorDescription).Msg("payment failed")
	return true, nil
}
