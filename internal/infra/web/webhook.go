package web

import (
	"encoding/json"
	"io"
	"net/http"

	"hairstyle-ai-studio/internal/infra/metrics"
	"hairstyle-ai-studio/internal/infra/payment"
	"hairstyle-ai-studio/internal/usecase"
)

const signatureHeader = "X-Razorpay-Signature"

// webhookEnvelope mirrors the gateway's callback body. Only the fields the
// settlement flow reads are declared.
type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string            `json:"id"`
				OrderID          string            `json:"order_id"`
				Amount           int64             `json:"amount"`
				Notes            map[string]string `json:"notes"`
				ErrorDescription string            `json:"error_description"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// handleWebhook is the gateway's asynchronous callback. The signature check
// on the raw body is the sole gate that keeps a client from fabricating a
// successful-payment callback; nothing touches the datastore before it
// passes. Recognized-but-inert events are acknowledged with 2xx so the
// gateway does not retry them forever.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		s.writeCORS(w)
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.webhookSecret == "" {
		// deployment problem, not a client problem; nothing else may run
		s.log.Error().Msg("webhook secret is not configured")
		writeJSONError(w, http.StatusInternalServerError, "server configuration error")
		return
	}

	rawBody, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	sig := r.Header.Get(signatureHeader)
	if sig == "" {
		metrics.IncWebhookEvent("unknown", "rejected_missing_signature")
		writeJSONError(w, http.StatusBadRequest, "missing signature header")
		return
	}

	if !payment.VerifyWebhookSignature(rawBody, sig, s.webhookSecret) {
		metrics.IncWebhookEvent("unknown", "rejected_signature")
		s.log.Warn().Msg("webhook signature verification failed")
		writeJSONError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	// Parse only after the body is proven authentic.
	var env webhookEnvelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed payload")
		return
	}

	switch env.Event {
	case "payment.captured":
		s.handleCaptured(w, r, &env)
	case "payment.failed":
		s.handleFailed(w, r, &env)
	default:
		metrics.IncWebhookEvent(env.Event, "acknowledged")
		writeJSON(w, http.StatusOK, map[string]string{"status": "acknowledged"})
	}
}

func (s *Server) handleCaptured(w http.ResponseWriter, r *http.Request, env *webhookEnvelope) {
	entity := env.Payload.Payment.Entity
	ev := usecase.CaptureEvent{
		GatewayPaymentID: entity.ID,
		GatewayOrderID:   entity.OrderID,
		Amount:           entity.Amount,
		PaymentRecordID:  entity.Notes["payment_record_id"],
		UserID:           entity.Notes["user_id"],
		PlanID:           entity.Notes["plan_id"],
	}

	res, err := s.webhookUC.SettleCapture(r.Context(), ev)
	if err != nil {
		metrics.IncWebhookEvent(env.Event, "error")
		s.log.Error().Err(err).Str("gateway_payment_id", entity.ID).Msg("settlement failed")
		// 500 makes the gateway redeliver; the claim guard makes that safe
		writeJSONError(w, http.StatusInternalServerError, "settlement failed")
		return
	}

	switch res.Outcome {
	case usecase.OutcomeAlreadyProcessed:
		metrics.IncWebhookEvent(env.Event, "already_processed")
		writeJSON(w, http.StatusOK, map[string]string{"status": "already_processed"})
	case usecase.OutcomeUnresolved:
		// the gateway cannot supply better data on redelivery; accept and drop
		metrics.IncWebhookEvent(env.Event, "ignored")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
	default:
		metrics.IncWebhookEvent(env.Event, "settled")
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

func (s *Server) handleFailed(w http.ResponseWriter, r *http.Request, env *webhookEnvelope) {
	entity := env.Payload.Payment.Entity
	resolved, err := s.webhookUC.MarkFailure(r.Context(), usecase.FailureEvent{
		GatewayPaymentID: entity.ID,
		GatewayOrderID:   entity.OrderID,
		PaymentRecordID:  entity.Notes["payment_record_id"],
		ErrorDescription: entity.ErrorDescription,
	})
	if err != nil {
		metrics.IncWebhookEvent(env.Event, "error")
		writeJSONError(w, http.StatusInternalServerError, "failure marking failed")
		return
	}
	if !resolved {
		metrics.IncWebhookEvent(env.Event, "ignored")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}
	metrics.IncWebhookEvent(env.Event, "failed_marked")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
