// File: internal/usecase/plan_uc.go
package usecase

import (
	"context"

	"github.com/google/uuid"

	"hairstyle-ai-studio/internal/domain/model"
	"hairstyle-ai-studio/internal/domain/ports/repository"
)

// Compile-time check
var _ PlanUseCase = (*planUC)(nil)

type PlanUseCase interface {
	Create(ctx context.Context, name string, credits, price int64, currency string, durationDays int) (*model.CreditPlan, error)
	Get(ctx context.Context, id string) (*model.CreditPlan, error)
	List(ctx context.Context) ([]*model.CreditPlan, error)
	Delete(ctx context.Context, id string) error
}

type planUC struct {
	plans repository.CreditPlanRepository
}

func NewPlanUseCase(plans repository.CreditPlanRepository) *planUC {
	return &planUC{plans: plans}
}

func (u *planUC) Create(ctx context.Context, name string, credits, price int64, currency string, durationDays int) (*model.CreditPlan, error) {
	plan, err := model.NewCreditPlan(uuid.NewString(), name, credits, price, currency, durationDays)
	if err != nil {
		return nil, err
	}
	if err := u.plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (u *planUC) Get(ctx context.Context, id string) (*model.CreditPlan, error) {
	return u.plans.FindByID(ctx, id)
}

func (u *planUC) List(ctx context.Context) ([]*model.CreditPlan, error) {
	return u.plans.ListAll(ctx)
}

func (u *planUC) Delete(ctx context.Context, id string) error {
	return u.plans.Delete(ctx, id)
}
