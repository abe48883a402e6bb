package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound            = errors.New("entity not found")
	ErrAlreadyExists       = errors.New("entity already exists")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrAlreadyProcessed    = errors.New("payment already processed")
	ErrPlanNotFound        = errors.New("plan not found")
	ErrUnresolvedPayment   = errors.New("webhook payload could not be correlated to a payment")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrOperationFailed     = errors.New("database operation failed")
	ErrReadDatabaseRow     = errors.New("failed to read database row")
	ErrInvalidExecContext  = errors.New("invalid query execution context")
	ErrRateLimited         = errors.New("rate limit exceeded")
	ErrGenerationFailed    = errors.New("image generation failed")
)
