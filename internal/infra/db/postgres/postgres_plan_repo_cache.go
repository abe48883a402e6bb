package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hairstyle-ai-studio/internal/domain/model"
	"hairstyle-ai-studio/internal/domain/ports/repository"
	"hairstyle-ai-studio/internal/infra/metrics"
	red "hairstyle-ai-studio/internal/infra/redis"
)

var _ repository.CreditPlanRepository = (*planRepoCacheDecorator)(nil)

// planRepoCacheDecorator is a read-through redis cache over the plan repo.
// Plans change rarely and every settlement reads one, so the cache keeps the
// webhook hot path off the plans table.
type planRepoCacheDecorator struct {
	inner repository.CreditPlanRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewPlanRepoCacheDecorator(inner repository.CreditPlanRepository, cache red.RedisClient) repository.CreditPlanRepository {
	return &planRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   1 * time.Hour,
	}
}

func (d *planRepoCacheDecorator) FindByID(ctx context.Context, id string) (*model.CreditPlan, error) {
	key := fmt.Sprintf("plan:%s", id)
	// any cache error, including a real redis outage, falls through to the
	// source of truth
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("plan", "hit")
		var plan model.CreditPlan
		if json.Unmarshal([]byte(val), &plan) == nil {
			return &plan, nil
		}
	}

	metrics.IncCacheRequest("plan", "miss")
	plan, err := d.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan != nil {
		b, _ := json.Marshal(plan)
		_ = d.cache.Set(ctx, key, b, d.ttl)
	}
	return plan, nil
}

// Write operations invalidate.
func (d *planRepoCacheDecorator) Save(ctx context.Context, plan *model.CreditPlan) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("plan:%s", plan.ID), "plans:all")
	return d.inner.Save(ctx, plan)
}

func (d *planRepoCacheDecorator) Delete(ctx context.Context, id string) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("plan:%s", id), "plans:all")
	return d.inner.Delete(ctx, id)
}

func (d *planRepoCacheDecorator) ListAll(ctx context.Context) ([]*model.CreditPlan, error) {
	const key = "plans:all"
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("plan_list", "hit")
		var plans []*model.CreditPlan
		if json.Unmarshal([]byte(val), &plans) == nil {
			return plans, nil
		}
	}

	metrics.IncCacheRequest("plan_list", "miss")
	plans, err := d.inner.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(plans) > 0 {
		b, _ := json.Marshal(plans)
		_ = d.cache.Set(ctx, key, b, d.ttl)
	}
	return plans, nil
}
