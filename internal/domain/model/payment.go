package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"    // record created at checkout initiation
	PaymentStatusProcessing PaymentStatus = "processing" // client reported gateway completion; unverified
	PaymentStatusSuccess    PaymentStatus = "success"    // settled by the verified webhook; terminal
	PaymentStatusFailed     PaymentStatus = "failed"     // gateway reported failure or verification failed
)

// PaymentTransaction records one payment attempt against the gateway.
// The id is generated on our side before checkout and travels to the gateway
// inside the order notes, so the webhook can correlate without guessing.
type PaymentTransaction struct {
	ID               string // UUID
	UserID           string // UUID
	PlanID           string // UUID
	Amount           int64  // minor currency units (paise), to avoid float errors
	Currency         string
	Status           PaymentStatus
	GatewayOrderID   string
	GatewayPaymentID string
	GatewaySignature string
	WebhookVerified  bool
	ErrorMessage     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time // set when the webhook settles or fails the payment
}

func (p *PaymentTransaction) IsZero() bool { return p == nil || p.ID == "" }

// IsTerminal reports whether the payment reached a final state. A successful
// payment is immutable with respect to financial effect.
func (p *PaymentTransaction) IsTerminal() bool {
	return p.Status == PaymentStatusSuccess || p.Status == PaymentStatusFailed
}
