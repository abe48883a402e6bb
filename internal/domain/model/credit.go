package model

import (
	"time"

	"github.com/google/uuid"

	"hairstyle-ai-studio/internal/domain"
)

type CreditTransactionType string

const (
	CreditTransactionPurchase CreditTransactionType = "purchase"
	CreditTransactionUsage    CreditTransactionType = "usage"
)

// UserCredits is the per-user mutable balance row together with the plan
// metadata set by the most recent settlement.
type UserCredits struct {
	UserID        string
	Credits       int64
	PlanType      string
	PlanExpiresAt *time.Time
	UpdatedAt     time.Time
}

// CreditTransaction is one append-only ledger entry. BalanceAfter must equal
// the user's balance immediately after CreditsChange was applied.
type CreditTransaction struct {
	ID            string
	UserID        string
	Type          CreditTransactionType
	CreditsChange int64 // signed delta
	BalanceAfter  int64
	Description   string
	RelatedTo     string                 // correlation tag, e.g. "payment" or "generation"
	Metadata      map[string]interface{} // serialized as JSONB
	CreatedAt     time.Time
}

// NewCreditTransaction validates and constructs a ledger entry.
func NewCreditTransaction(userID string, typ CreditTransactionType, change, balanceAfter int64, description, relatedTo string, meta map[string]interface{}) (*CreditTransaction, error) {
	if userID == "" || balanceAfter < 0 {
		return nil, domain.ErrInvalidArgument
	}
	switch typ {
	case CreditTransactionPurchase:
		if change <= 0 {
			return nil, domain.ErrInvalidArgument
		}
	case CreditTransactionUsage:
		if change >= 0 {
			return nil, domain.ErrInvalidArgument
		}
	default:
		return nil, domain.ErrInvalidArgument
	}
	return &CreditTransaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		Type:          typ,
		CreditsChange: change,
		BalanceAfter:  balanceAfter,
		Description:   description,
		RelatedTo:     relatedTo,
		Metadata:      meta,
		CreatedAt:     time.Now(),
	}, nil
}
