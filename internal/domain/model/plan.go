package model

import (
	"time"

	"hairstyle-ai-studio/internal/domain"
)

// CreditPlan represents a purchasable bundle: a credit grant, a price in
// minor currency units, and a validity duration.
type CreditPlan struct {
	ID           string
	Name         string
	Credits      int64
	Price        int64
	Currency     string
	DurationDays int
	CreatedAt    time.Time
}

func (p *CreditPlan) IsZero() bool { return p == nil || p.ID == "" }

// NewCreditPlan validates and constructs a plan.
func NewCreditPlan(id, name string, credits, price int64, currency string, durationDays int) (*CreditPlan, error) {
	if id == "" || name == "" || credits <= 0 || price <= 0 || currency == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &CreditPlan{
		ID:           id,
		Name:         name,
		Credits:      credits,
		Price:        price,
		Currency:     currency,
		DurationDays: durationDays,
		CreatedAt:    time.Now(),
	}, nil
}

// ExpiryFrom computes when a plan purchased at the given moment runs out.
// Plans with a non-positive duration default to 30 days.
func (p *CreditPlan) ExpiryFrom(t time.Time) time.Time {
	days := p.DurationDays
	if days <= 0 {
		days = 30
	}
	return t.Add(time.Duration(days) * 24 * time.Hour)
}
