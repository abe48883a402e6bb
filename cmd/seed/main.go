package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"hairstyle-ai-studio/internal/config"
	pg "hairstyle-ai-studio/internal/infra/db/postgres"
	"hairstyle-ai-studio/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	planRepo := pg.NewPostgresPlanRepo(pool)
	planUC := usecase.NewPlanUseCase(planRepo)

	// If plans already exist, do nothing
	plans, err := planUC.List(ctx)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (credits=%d, price=%d %s, days=%d)\n", p.Name, p.Credits, p.Price, p.Currency, p.DurationDays)
		}
		return
	}

	currency := cfg.Payment.Razorpay.Currency
	seed := []struct {
		Name    string
		Credits int64
		Price   int64
		Days    int
	}{
		{"Starter", 10, 9_900, 30},
		{"Styler", 50, 39_900, 30},
		{"Studio", 200, 129_900, 90},
	}

	for _, s := range seed {
		p, err := planUC.Create(ctx, s.Name, s.Credits, s.Price, currency, s.Days)
		if err != nil {
			log.Fatalf("create plan %s: %v", s.Name, err)
		}
		fmt.Printf("created plan %s (%s)\n", p.Name, p.ID)
	}
}
