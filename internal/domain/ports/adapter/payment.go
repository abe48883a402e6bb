package adapter

import "context"

// CheckoutOrder is the gateway-side order created at checkout initiation.
type CheckoutOrder struct {
	OrderID  string
	Amount   int64
	Currency string
}

// CheckoutGateway abstracts the payment provider's order API. Settlement is
// never driven through this interface; only the signed webhook settles.
type CheckoutGateway interface {
	Name() string
	// CreateOrder registers an order with the gateway. The notes travel with
	// the order and come back verbatim inside webhook payloads.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*CheckoutOrder, error)
}
