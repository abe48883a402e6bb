// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"hairstyle-ai-studio/internal/domain"
	"hairstyle-ai-studio/internal/domain/model"
	"hairstyle-ai-studio/internal/domain/ports/adapter"
	"hairstyle-ai-studio/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	return &l
}

// memPaymentRepo is a small in-memory implementation used by unit tests.
type memPaymentRepo struct {
	mu      sync.Mutex
	store   map[string]*model.PaymentTransaction
	saveErr error
	failErr error
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{store: make(map[string]*model.PaymentTransaction)}
}

func (m *memPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.PaymentTransaction) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PaymentTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPaymentRepo) FindByGatewayOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.PaymentTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.store {
		if p.GatewayOrderID == orderID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPaymentRepo) MarkProcessing(ctx context.Context, tx repository.Tx, id, gatewayPaymentID, gatewaySignature string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok || p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.Status = model.PaymentStatusProcessing
	p.GatewayPaymentID = gatewayPaymentID
	p.GatewaySignature = gatewaySignature
	p.UpdatedAt = time.Now()
	return true, nil
}

func (m *memPaymentRepo) ClaimSuccess(ctx context.Context, tx repository.Tx, id, gatewayPaymentID string, completedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok || p.Status == model.PaymentStatusSuccess {
		return false, nil
	}
	p.Status = model.PaymentStatusSuccess
	if gatewayPaymentID != "" {
		p.GatewayPaymentID = gatewayPaymentID
	}
	p.WebhookVerified = true
	p.CompletedAt = &completedAt
	p.UpdatedAt = time.Now()
	return true, nil
}

func (m *memPaymentRepo) MarkFailed(ctx context.Context, tx repository.Tx, id, errorMessage string, completedAt time.Time) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return domain.ErrOperationFailed
	}
	if p.Status == model.PaymentStatusSuccess {
		return nil
	}
	p.Status = model.PaymentStatusFailed
	p.WebhookVerified = true
	p.ErrorMessage = errorMessage
	p.CompletedAt = &completedAt
	return nil
}

// memPlanRepo provides in-memory plans for tests.
type memPlanRepo struct {
	mu    sync.RWMutex
	plans map[string]*model.CreditPlan
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: make(map[string]*model.CreditPlan)}
}

func (m *memPlanRepo) Save(ctx context.Context, plan *model.CreditPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *plan
	m.plans[plan.ID] = &cp
	return nil
}

func (m *memPlanRepo) FindByID(ctx context.Context, id string) (*model.CreditPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPlanRepo) ListAll(ctx context.Context) ([]*model.CreditPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.CreditPlan, 0, len(m.plans))
	for _, p := range m.plans {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memPlanRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.plans, id)
	return nil
}

// memCreditRepo keeps balances and the ledger in memory. Grant/deduct mirror
// the atomic SQL semantics (conditional decrement, upsert increment).
type memCreditRepo struct {
	mu        sync.Mutex
	balances  map[string]*model.UserCredits
	ledger    []*model.CreditTransaction
	appendErr error
	grantErr  error
}

func newMemCreditRepo() *memCreditRepo {
	return &memCreditRepo{balances: make(map[string]*model.UserCredits)}
}

func (m *memCreditRepo) GetBalance(ctx context.Context, tx repository.Tx, userID string) (*model.UserCredits, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uc, ok := m.balances[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *uc
	return &cp, nil
}

func (m *memCreditRepo) GrantCredits(ctx context.Context, tx repository.Tx, userID string, amount int64, planType string, planExpiresAt time.Time) (int64, error) {
	if m.grantErr != nil {
		return 0, m.grantErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	uc, ok := m.balances[userID]
	if !ok {
		uc = &model.UserCredits{UserID: userID}
		m.balances[userID] = uc
	}
	uc.Credits += amount
	uc.PlanType = planType
	exp := planExpiresAt
	uc.PlanExpiresAt = &exp
	uc.UpdatedAt = time.Now()
	return uc.Credits, nil
}

func (m *memCreditRepo) DeductCredit(ctx context.Context, tx repository.Tx, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uc, ok := m.balances[userID]
	if !ok || uc.Credits <= 0 {
		return 0, domain.ErrInsufficientCredits
	}
	uc.Credits--
	uc.UpdatedAt = time.Now()
	return uc.Credits, nil
}

func (m *memCreditRepo) AppendTransaction(ctx context.Context, tx repository.Tx, entry *model.CreditTransaction) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.ledger = append(m.ledger, &cp)
	return nil
}

func (m *memCreditRepo) ListTransactions(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.CreditTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.CreditTransaction
	for i := len(m.ledger) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if m.ledger[i].UserID == userID {
			cp := *m.ledger[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memCreditRepo) ledgerFor(userID string) []*model.CreditTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.CreditTransaction
	for _, e := range m.ledger {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// memTxManager runs the callback directly; the in-memory repos are their own
// source of atomicity.
type memTxManager struct{}

func (memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

// mockGateway records orders created against it.
type mockGateway struct {
	mu        sync.Mutex
	orders    []adapter.CheckoutOrder
	lastNotes map[string]string
	createErr error
}

func (g *mockGateway) Name() string { return "mock" }

func (g *mockGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*adapter.CheckoutOrder, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	o := adapter.CheckoutOrder{OrderID: "order_" + receipt[:8], Amount: amount, Currency: currency}
	g.orders = append(g.orders, o)
	g.lastNotes = notes
	return &o, nil
}

// mockVision returns canned analysis/previews and counts calls.
type mockVision struct {
	mu           sync.Mutex
	analyzeCalls int
	genCalls     int
	genErr       error
}

func (v *mockVision) AnalyzeFace(ctx context.Context, image []byte, mimeType string) (*model.FaceAnalysis, error) {
	v.mu.Lock()
	v.analyzeCalls++
	v.mu.Unlock()
	return &model.FaceAnalysis{Shape: model.FaceShapeRound, Confidence: 0.8}, nil
}

func (v *mockVision) GeneratePreview(ctx context.Context, image []byte, mimeType, styleName string) (*model.StylePreview, error) {
	v.mu.Lock()
	v.genCalls++
	v.mu.Unlock()
	if v.genErr != nil {
		return nil, v.genErr
	}
	return &model.StylePreview{MIMEType: mimeType, Image: image}, nil
}
