// File: internal/usecase/credit_uc.go
package usecase

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"hairstyle-ai-studio/internal/domain"
	"hairstyle-ai-studio/internal/domain/model"
	"hairstyle-ai-studio/internal/domain/ports/repository"
	"hairstyle-ai-studio/internal/infra/metrics"
)

// Compile-time check
var _ CreditUseCase = (*creditUC)(nil)

type CreditUseCase interface {
	Balance(ctx context.Context, userID string) (*model.UserCredits, error)
	HasCredits(ctx context.Context, userID string) (bool, error)
	// Deduct consumes one credit and logs a usage ledger entry in the same
	// transaction. Fails with domain.ErrInsufficientCredits at zero balance.
	Deduct(ctx context.Context, userID, reason, relatedTo string) (int64, error)
	History(ctx context.Context, userID string, limit int) ([]*model.CreditTransaction, error)
}

type creditUC struct {
	credits repository.CreditRepository
	tm      repository.TransactionManager
	log     *zerolog.Logger
}

func NewCreditUseCase(credits repository.CreditRepository, tm repository.TransactionManager, logger *zerolog.Logger) *creditUC {
	return &creditUC{credits: credits, tm: tm, log: logger}
}

func (u *creditUC) Balance(ctx context.Context, userID string) (*model.UserCredits, error) {
	uc, err := u.credits.GetBalance(ctx, nil, userID)
	if errors.Is(err, domain.ErrNotFound) {
		// no grant yet: a zero balance, not an error
		return &model.UserCredits{UserID: userID}, nil
	}
	return uc, err
}

func (u *creditUC) HasCredits(ctx context.Context, userID string) (bool, error) {
	uc, err := u.Balance(ctx, userID)
	if err != nil {
		return false, err
	}
	return uc.Credits > 0, nil
}

func (u *creditUC) Deduct(ctx context.Context, userID, reason, relatedTo string) (int64, error) {
	var balance int64
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		b, err := u.credits.DeductCredit(ctx, tx, userID)
		if err != nil {
			return err
		}
		entry, err := model.NewCreditTransaction(
			userID, model.CreditTransactionUsage, -1, b, reason, relatedTo, nil,
		)
		if err != nil {
			return err
		}
		if err := u.credits.AppendTransaction(ctx, tx, entry); err != nil {
			return err
		}
		balance = b
		return nil
	})
	if err != nil {
		return 0, err
	}
	metrics.IncCreditConsumed()
	u.log.Debug().Str("user_id", userID).Int64("balance", balance).Str("reason", reason).Msg("credit consumed")
	return balance, nil
}

func (u *creditUC) History(ctx context.Context, userID string, limit int) ([]*model.CreditTransaction, error) {
	return u.credits.ListTransactions(ctx, nil, userID, limit)
}
