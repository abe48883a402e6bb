package web

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hairstyle-ai-studio/internal/domain"
	red "hairstyle-ai-studio/internal/infra/redis"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeCORS(w http.ResponseWriter) {
	origin := s.allowedOrigin
	if origin == "" {
		origin = "*"
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+signatureHeader)
}

// GET /api/v1/plans
func (s *Server) handlePlansList(w http.ResponseWriter, r *http.Request) {
	plans, err := s.planUC.List(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to list plans")
		return
	}
	type planResp struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Credits      int64  `json:"credits"`
		Price        int64  `json:"price"`
		Currency     string `json:"currency"`
		DurationDays int    `json:"duration_days"`
	}
	out := make([]planResp, 0, len(plans))
	for _, p := range plans {
		out = append(out, planResp{p.ID, p.Name, p.Credits, p.Price, p.Currency, p.DurationDays})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": out})
}

// POST /api/v1/checkout
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlanID string `json:"plan_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlanID == "" {
		writeJSONError(w, http.StatusBadRequest, "plan_id is required")
		return
	}

	intent, err := s.paymentUC.Initiate(r.Context(), userIDFrom(r.Context()), req.PlanID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "plan not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "failed to initiate checkout")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"payment_id": intent.PaymentID,
		"order_id":   intent.GatewayOrderID,
		"amount":     intent.Amount,
		"currency":   intent.Currency,
		"key_id":     s.gatewayKeyID,
	})
}

// POST /api/v1/checkout/{id}/complete — the SPA reports the gateway widget
// finished. The record moves to processing; credits arrive only via webhook.
func (s *Server) handleCheckoutComplete(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "id")
	var req struct {
		GatewayPaymentID string `json:"gateway_payment_id"`
		GatewaySignature string `json:"gateway_signature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.paymentUC.MarkProcessing(r.Context(), userIDFrom(r.Context()), paymentID, req.GatewayPaymentID, req.GatewaySignature)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "payment not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "failed to update payment")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "processing"})
}

// GET /api/v1/credits
func (s *Server) handleCreditsBalance(w http.ResponseWriter, r *http.Request) {
	uc, err := s.creditUC.Balance(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get balance")
		return
	}
	resp := map[string]interface{}{
		"credits":   uc.Credits,
		"plan_type": uc.PlanType,
	}
	if uc.PlanExpiresAt != nil {
		resp["plan_expires_at"] = uc.PlanExpiresAt.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /api/v1/credits/history
func (s *Server) handleCreditsHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.creditUC.History(r.Context(), userIDFrom(r.Context()), limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	type entryResp struct {
		Type          string `json:"type"`
		CreditsChange int64  `json:"credits_change"`
		BalanceAfter  int64  `json:"balance_after"`
		Description   string `json:"description"`
		CreatedAt     string `json:"created_at"`
	}
	out := make([]entryResp, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResp{string(e.Type), e.CreditsChange, e.BalanceAfter, e.Description, e.CreatedAt.Format(time.RFC3339)})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": out})
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	var req struct {
		Image    string `json:"image"` // base64
		MIMEType string `json:"mime_type"`
	}
	body := io.LimitReader(r.Body, s.maxUploadBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil || req.Image == "" {
		writeJSONError(w, http.StatusBadRequest, "image is required")
		return nil, "", false
	}
	img, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "image must be base64")
		return nil, "", false
	}
	mime := req.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return img, mime, true
}

// POST /api/v1/analyze
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	img, mime, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	analysis, err := s.styleUC.Analyze(r.Context(), userIDFrom(r.Context()), img, mime)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeJSONError(w, http.StatusBadRequest, "invalid image")
			return
		}
		writeJSONError(w, http.StatusBadGateway, "analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"shape":       analysis.Shape,
		"confidence":  analysis.Confidence,
		"suggestions": analysis.Suggestions,
	})
}

// POST /api/v1/generate
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(r.Context(), red.GenerationKey(userID), s.generationsPerMinute, time.Minute)
		if err == nil && !allowed {
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
	}

	var req struct {
		Image    string `json:"image"`
		MIMEType string `json:"mime_type"`
		StyleID  string `json:"style_id"`
	}
	body := io.LimitReader(r.Body, s.maxUploadBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil || req.Image == "" || req.StyleID == "" {
		writeJSONError(w, http.StatusBadRequest, "image and style_id are required")
		return
	}
	img, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "image must be base64")
		return
	}
	mime := req.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}

	preview, balance, err := s.styleUC.GeneratePreview(r.Context(), userID, img, mime, req.StyleID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientCredits):
			writeJSONError(w, http.StatusPaymentRequired, "insufficient credits")
		case errors.Is(err, domain.ErrInvalidArgument):
			writeJSONError(w, http.StatusBadRequest, "invalid request")
		default:
			writeJSONError(w, http.StatusBadGateway, "generation failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"image":     base64.StdEncoding.EncodeToString(preview.Image),
		"mime_type": preview.MIMEType,
		"credits":   balance,
	})
}
