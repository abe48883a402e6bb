package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"hairstyle-ai-studio/internal/domain/ports/adapter"
)

// Compile-time assurance this gateway satisfies the port
var _ adapter.CheckoutGateway = (*RazorpayGateway)(nil)

// RazorpayGateway implements adapter.CheckoutGateway against the Razorpay
// Orders API. Orders carry our correlation notes; settlement happens only
// through the signed webhook, never through this client.
type RazorpayGateway struct {
	keyID     string
	keySecret string
	base      string // e.g., https://api.razorpay.com/v1
	client    *http.Client
}

func NewRazorpayGateway(keyID, keySecret, base string) (*RazorpayGateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, errors.New("razorpay: key id and secret are required")
	}
	if base == "" {
		base = "https://api.razorpay.com/v1"
	}
	return &RazorpayGateway{
		keyID:     keyID,
		keySecret: keySecret,
		base:      base,
		client:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (g *RazorpayGateway) Name() string { return "razorpay" }

func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*adapter.CheckoutOrder, error) {
	reqBody := struct {
		Amount   int64             `json:"amount"`
		Currency string            `json:"currency"`
		Receipt  string            `json:"receipt"`
		Notes    map[string]string `json:"notes,omitempty"`
	}{Amount: amount, Currency: currency, Receipt: receipt, Notes: notes}

	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base+"/orders", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("razorpay create order: status %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Status   string `json:"status"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("razorpay create order: decode: %w", err)
	}
	if out.ID == "" {
		return nil, errors.New("razorpay create order: empty order id")
	}
	return &adapter.CheckoutOrder{OrderID: out.ID, Amount: out.Amount, Currency: out.Currency}, nil
}
