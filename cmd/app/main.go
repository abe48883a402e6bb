// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hairstyle-ai-studio/internal/config"
	"hairstyle-ai-studio/internal/domain/ports/adapter"
	ai "hairstyle-ai-studio/internal/infra/adapters/ai"
	pg "hairstyle-ai-studio/internal/infra/db/postgres"
	"hairstyle-ai-studio/internal/infra/logging"
	"hairstyle-ai-studio/internal/infra/metrics"
	pay "hairstyle-ai-studio/internal/infra/payment"
	red "hairstyle-ai-studio/internal/infra/redis"
	"hairstyle-ai-studio/internal/infra/web"
	"hairstyle-ai-studio/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop vision adapter, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	limiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	tm := pg.NewTxManager(pool)
	paymentRepo := pg.NewPaymentRepo(pool)
	creditRepo := pg.NewCreditRepo(pool)
	planRepo := pg.NewPlanRepoCacheDecorator(pg.NewPostgresPlanRepo(pool), redisClient)

	// ---- Gateway ----
	gateway, err := pay.NewRazorpayGateway(
		cfg.Payment.Razorpay.KeyID,
		cfg.Payment.Razorpay.KeySecret,
		cfg.Payment.Razorpay.BaseURL,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("razorpay gateway")
	}

	// ---- Vision adapter ----
	var vision adapter.VisionAdapter
	if cfg.Runtime.Dev || cfg.AI.GeminiKey == "" {
		logger.Warn().Msg("vision adapter: noop (no gemini key or dev mode)")
		vision = ai.NewNoopVisionAdapter()
	} else {
		vision, err = ai.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.AnalyzeModel, cfg.AI.ImageModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
	}

	// ---- Use cases ----
	planUC := usecase.NewPlanUseCase(planRepo)
	paymentUC := usecase.NewPaymentUseCase(paymentRepo, planRepo, gateway, logger)
	webhookUC := usecase.NewWebhookUseCase(paymentRepo, planRepo, creditRepo, tm, logger)
	creditUC := usecase.NewCreditUseCase(creditRepo, tm, logger)
	styleUC := usecase.NewStyleUseCase(vision, creditUC, logger)

	// ---- HTTP ----
	server := web.NewServer(cfg, planUC, paymentUC, webhookUC, creditUC, styleUC, limiter, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error().Err(err).Msg("http server")
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
