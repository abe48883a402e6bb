package repository

import (
	"context"
	"time"

	"hairstyle-ai-studio/internal/domain/model"
)

// CreditRepository is the port for the balance row and the append-only ledger.
//
// GrantCredits and DeductCredit are atomic at the datastore level (upsert
// increment / conditional decrement); callers never read-modify-write a
// balance. Ledger appends are expected to run in the same transaction as the
// balance change they describe.
type CreditRepository interface {
	GetBalance(ctx context.Context, tx Tx, userID string) (*model.UserCredits, error)

	// GrantCredits adds amount to the user's balance (creating the row on
	// first grant), updates plan metadata, and returns the resulting balance.
	GrantCredits(ctx context.Context, tx Tx, userID string, amount int64, planType string, planExpiresAt time.Time) (int64, error)

	// DeductCredit subtracts one credit and returns the resulting balance.
	// Returns domain.ErrInsufficientCredits when the balance is already zero;
	// the balance is never driven negative.
	DeductCredit(ctx context.Context, tx Tx, userID string) (int64, error)

	AppendTransaction(ctx context.Context, tx Tx, entry *model.CreditTransaction) error
	ListTransactions(ctx context.Context, tx Tx, userID string, limit int) ([]*model.CreditTransaction, error)
}
