package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"hairstyle-ai-studio/internal/config"
	red "hairstyle-ai-studio/internal/infra/redis"
	"hairstyle-ai-studio/internal/usecase"
)

type Server struct {
	planUC    usecase.PlanUseCase
	paymentUC usecase.PaymentUseCase
	webhookUC usecase.WebhookUseCase
	creditUC  usecase.CreditUseCase
	styleUC   usecase.StyleUseCase

	auth    *AuthManager
	limiter *red.RateLimiter
	log     *zerolog.Logger

	webhookSecret        string
	gatewayKeyID         string
	allowedOrigin        string
	maxUploadBytes       int64
	generationsPerMinute int

	server *http.Server
}

func NewServer(
	cfg *config.Config,
	planUC usecase.PlanUseCase,
	paymentUC usecase.PaymentUseCase,
	webhookUC usecase.WebhookUseCase,
	creditUC usecase.CreditUseCase,
	styleUC usecase.StyleUseCase,
	limiter *red.RateLimiter,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		planUC:               planUC,
		paymentUC:            paymentUC,
		webhookUC:            webhookUC,
		creditUC:             creditUC,
		styleUC:              styleUC,
		auth:                 NewAuthManager(cfg.Auth.JWTSecret),
		limiter:              limiter,
		log:                  logger,
		webhookSecret:        cfg.Payment.Razorpay.WebhookSecret,
		gatewayKeyID:         cfg.Payment.Razorpay.KeyID,
		allowedOrigin:        cfg.Server.AllowedOrigin,
		maxUploadBytes:       cfg.Server.MaxUploadBytes,
		generationsPerMinute: cfg.RateLimit.GenerationsPerMinute,
	}
}

// Router builds the chi mux. The webhook route stays outside the auth group:
// the gateway authenticates with its signature, not a user token.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.HandleFunc("/webhook/razorpay", s.handleWebhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.corsMiddleware)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/plans", s.handlePlansList)
			r.Post("/checkout", s.handleCheckout)
			r.Post("/checkout/{id}/complete", s.handleCheckoutComplete)
			r.Get("/credits", s.handleCreditsBalance)
			r.Get("/credits/history", s.handleCreditsHistory)
			r.Post("/analyze", s.handleAnalyze)
			r.Post("/generate", s.handleGenerate)
		})
	})
	return r
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeCORS(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) Start(port int) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.Info().Int("port", port).Msg("HTTP server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
