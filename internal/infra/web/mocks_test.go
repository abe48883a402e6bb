package web

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"hairstyle-ai-studio/internal/config"
	"hairstyle-ai-studio/internal/domain"
	"hairstyle-ai-studio/internal/domain/model"
	"hairstyle-ai-studio/internal/usecase"
)

const (
	testWebhookSecret = "whsec_test_9c41"
	testJWTSecret     = "jwt_test_secret"
)

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.MaxUploadBytes = 8 << 20
	cfg.Auth.JWTSecret = testJWTSecret
	cfg.Payment.Razorpay.KeyID = "rzp_test_key"
	cfg.Payment.Razorpay.WebhookSecret = testWebhookSecret
	cfg.RateLimit.GenerationsPerMinute = 5
	return cfg
}

func newTestServer(
	planUC usecase.PlanUseCase,
	paymentUC usecase.PaymentUseCase,
	webhookUC usecase.WebhookUseCase,
	creditUC usecase.CreditUseCase,
	styleUC usecase.StyleUseCase,
) *Server {
	logger := zerolog.New(io.Discard).Level(zerolog.Disabled)
	return NewServer(newTestConfig(), planUC, paymentUC, webhookUC, creditUC, styleUC, nil, &logger)
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, UserClaims{
		Role: "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := tok.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

// ---- use case mocks with call counters ----

type stubWebhookUC struct {
	mu           sync.Mutex
	settleCalls  int
	failureCalls int
	lastCapture  usecase.CaptureEvent
	lastFailure  usecase.FailureEvent
	settleRes    *usecase.SettleResult
	settleErr    error
	failureFound bool
	failureErr   error
}

func (s *stubWebhookUC) SettleCapture(ctx context.Context, ev usecase.CaptureEvent) (*usecase.SettleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settleCalls++
	s.lastCapture = ev
	if s.settleErr != nil {
		return nil, s.settleErr
	}
	if s.settleRes != nil {
		return s.settleRes, nil
	}
	return &usecase.SettleResult{Outcome: usecase.OutcomeSettled, PaymentID: ev.PaymentRecordID, NewBalance: 10}, nil
}

func (s *stubWebhookUC) MarkFailure(ctx context.Context, ev usecase.FailureEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failureCalls++
	s.lastFailure = ev
	return s.failureFound, s.failureErr
}

func (s *stubWebhookUC) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settleCalls + s.failureCalls
}

type stubPlanUC struct {
	plans   []*model.CreditPlan
	listErr error
}

func (s *stubPlanUC) Create(ctx context.Context, name string, credits, price int64, currency string, durationDays int) (*model.CreditPlan, error) {
	return nil, domain.ErrOperationFailed
}

func (s *stubPlanUC) Get(ctx context.Context, id string) (*model.CreditPlan, error) {
	for _, p := range s.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubPlanUC) List(ctx context.Context) ([]*model.CreditPlan, error) {
	return s.plans, s.listErr
}

func (s *stubPlanUC) Delete(ctx context.Context, id string) error { return nil }

type stubPaymentUC struct {
	intent      *usecase.CheckoutIntent
	initiateErr error
	lastUserID  string
	lastPlanID  string
	markErr     error
}

func (s *stubPaymentUC) Initiate(ctx context.Context, userID, planID string) (*usecase.CheckoutIntent, error) {
	s.lastUserID = userID
	s.lastPlanID = planID
	if s.initiateErr != nil {
		return nil, s.initiateErr
	}
	return s.intent, nil
}

func (s *stubPaymentUC) MarkProcessing(ctx context.Context, userID, paymentID, gatewayPaymentID, gatewaySignature string) error {
	return s.markErr
}

func (s *stubPaymentUC) Get(ctx context.Context, userID, paymentID string) (*model.PaymentTransaction, error) {
	return nil, domain.ErrNotFound
}

type stubCreditUC struct {
	balance    *model.UserCredits
	balanceErr error
	entries    []*model.CreditTransaction
}

func (s *stubCreditUC) Balance(ctx context.Context, userID string) (*model.UserCredits, error) {
	if s.balanceErr != nil {
		return nil, s.balanceErr
	}
	if s.balance != nil {
		return s.balance, nil
	}
	return &model.UserCredits{UserID: userID}, nil
}

func (s *stubCreditUC) HasCredits(ctx context.Context, userID string) (bool, error) {
	b, err := s.Balance(ctx, userID)
	if err != nil {
		return false, err
	}
	return b.Credits > 0, nil
}

func (s *stubCreditUC) Deduct(ctx context.Context, userID, reason, relatedTo string) (int64, error) {
	return 0, domain.ErrInsufficientCredits
}

func (s *stubCreditUC) History(ctx context.Context, userID string, limit int) ([]*model.CreditTransaction, error) {
	return s.entries, nil
}

type stubStyleUC struct {
	analysis    *model.FaceAnalysis
	analyzeErr  error
	preview     *model.StylePreview
	previewBal  int64
	generateErr error
}

func (s *stubStyleUC) Analyze(ctx context.Context, userID string, image []byte, mimeType string) (*model.FaceAnalysis, error) {
	if s.analyzeErr != nil {
		return nil, s.analyzeErr
	}
	if s.analysis != nil {
		return s.analysis, nil
	}
	return &model.FaceAnalysis{Shape: model.FaceShapeOval, Confidence: 0.9}, nil
}

func (s *stubStyleUC) GeneratePreview(ctx context.Context, userID string, image []byte, mimeType, styleName string) (*model.StylePreview, int64, error) {
	if s.generateErr != nil {
		return nil, 0, s.generateErr
	}
	if s.preview != nil {
		return s.preview, s.previewBal, nil
	}
	return &model.StylePreview{UserID: userID, StyleID: styleName, MIMEType: mimeType, Image: image}, s.previewBal, nil
}
