// File: internal/usecase/credit_uc_test.go
package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hairstyle-ai-studio/internal/domain"
	"hairstyle-ai-studio/internal/domain/model"
)

func TestCreditUseCase_Balance(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user reads as zero balance", func(t *testing.T) {
		credits := newMemCreditRepo()
		uc := NewCreditUseCase(credits, memTxManager{}, newTestLogger())

		bal, err := uc.Balance(ctx, "user-new")
		if err != nil {
			t.Fatalf("Balance: %v", err)
		}
		if bal.Credits != 0 {
			t.Errorf("credits = %d, want 0", bal.Credits)
		}
		if bal.UserID != "user-new" {
			t.Errorf("user id = %q", bal.UserID)
		}
	})

	t.Run("returns the granted balance", func(t *testing.T) {
		credits := newMemCreditRepo()
		if _, err := credits.GrantCredits(ctx, nil, "user-1", 5, "Starter", time.Now().AddDate(0, 1, 0)); err != nil {
			t.Fatalf("grant: %v", err)
		}
		uc := NewCreditUseCase(credits, memTxManager{}, newTestLogger())

		bal, err := uc.Balance(ctx, "user-1")
		if err != nil {
			t.Fatalf("Balance: %v", err)
		}
		if bal.Credits != 5 {
			t.Errorf("credits = %d, want 5", bal.Credits)
		}

		ok, err := uc.HasCredits(ctx, "user-1")
		if err != nil || !ok {
			t.Errorf("HasCredits = %v, %v; want true, nil", ok, err)
		}
	})
}

func TestCreditUseCase_Deduct(t *testing.T) {
	ctx := context.Background()

	t.Run("deducts one credit and records a usage entry", func(t *testing.T) {
		credits := newMemCreditRepo()
		if _, err := credits.GrantCredits(ctx, nil, "user-1", 3, "Starter", time.Now().AddDate(0, 1, 0)); err != nil {
			t.Fatalf("grant: %v", err)
		}
		uc := NewCreditUseCase(credits, memTxManager{}, newTestLogger())

		balance, err := uc.Deduct(ctx, "user-1", "Hairstyle preview generation", "generation")
		if err != nil {
			t.Fatalf("Deduct: %v", err)
		}
		if balance != 2 {
			t.Errorf("balance = %d, want 2", balance)
		}

		ledger := credits.ledgerFor("user-1")
		if len(ledger) != 1 {
			t.Fatalf("ledger entries = %d, want 1", len(ledger))
		}
		entry := ledger[0]
		if entry.Type != model.CreditTransactionUsage {
			t.Errorf("entry type = %s", entry.Type)
		}
		if entry.CreditsChange != -1 {
			t.Errorf("credits change = %d, want -1", entry.CreditsChange)
		}
		if entry.BalanceAfter != 2 {
			t.Errorf("balance after = %d, want 2", entry.BalanceAfter)
		}
	})

	t.Run("fails at zero balance", func(t *testing.T) {
		credits := newMemCreditRepo()
		uc := NewCreditUseCase(credits, memTxManager{}, newTestLogger())

		_, err := uc.Deduct(ctx, "user-broke", "preview", "generation")
		if !errors.Is(err, domain.ErrInsufficientCredits) {
			t.Fatalf("err = %v, want ErrInsufficientCredits", err)
		}
		if got := len(credits.ledgerFor("user-broke")); got != 0 {
			t.Errorf("ledger entries = %d, want 0", got)
		}
	})

	t.Run("ledger failure aborts the deduction result", func(t *testing.T) {
		credits := newMemCreditRepo()
		credits.appendErr = errors.New("ledger down")
		if _, err := credits.GrantCredits(ctx, nil, "user-1", 3, "Starter", time.Now().AddDate(0, 1, 0)); err != nil {
			t.Fatalf("grant: %v", err)
		}
		uc := NewCreditUseCase(credits, memTxManager{}, newTestLogger())

		if _, err := uc.Deduct(ctx, "user-1", "preview", "generation"); err == nil {
			t.Fatal("expected deduction to surface the ledger error")
		}
	})

	t.Run("concurrent deductions never overdraw", func(t *testing.T) {
		credits := newMemCreditRepo()
		if _, err := credits.GrantCredits(ctx, nil, "user-1", 3, "Starter", time.Now().AddDate(0, 1, 0)); err != nil {
			t.Fatalf("grant: %v", err)
		}
		uc := NewCreditUseCase(credits, memTxManager{}, newTestLogger())

		const attempts = 10
		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := uc.Deduct(ctx, "user-1", "preview", "generation"); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if succeeded != 3 {
			t.Errorf("successful deductions = %d, want 3", succeeded)
		}
		bal, _ := credits.GetBalance(ctx, nil, "user-1")
		if bal.Credits != 0 {
			t.Errorf("final balance = %d, want 0", bal.Credits)
		}
	})
}

func TestCreditUseCase_History(t *testing.T) {
	ctx := context.Background()
	credits := newMemCreditRepo()
	if _, err := credits.GrantCredits(ctx, nil, "user-1", 10, "Starter", time.Now().AddDate(0, 1, 0)); err != nil {
		t.Fatalf("grant: %v", err)
	}
	uc := NewCreditUseCase(credits, memTxManager{}, newTestLogger())

	for i := 0; i < 4; i++ {
		if _, err := uc.Deduct(ctx, "user-1", "preview", "generation"); err != nil {
			t.Fatalf("Deduct: %v", err)
		}
	}

	history, err := uc.History(ctx, "user-1", 3)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history entries = %d, want 3 (limited)", len(history))
	}
	// newest first: the last deduction left a balance of 6
	if history[0].BalanceAfter != 6 {
		t.Errorf("newest balance after = %d, want 6", history[0].BalanceAfter)
	}
}
