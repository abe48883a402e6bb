package repository

import (
	"context"

	"hairstyle-ai-studio/internal/domain/model"
)

// CreditPlanRepository is the port for plan persistence.
type CreditPlanRepository interface {
	Save(ctx context.Context, plan *model.CreditPlan) error
	FindByID(ctx context.Context, id string) (*model.CreditPlan, error)
	ListAll(ctx context.Context) ([]*model.CreditPlan, error)
	Delete(ctx context.Context, id string) error
}
