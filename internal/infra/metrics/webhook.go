package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(webhookEventsTotal)
}

// Outcomes: settled, already_processed, failed_marked, acknowledged, ignored,
// rejected_signature, rejected_missing_signature, error.
var webhookEventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Gateway webhook deliveries by event type and handling outcome.",
	},
	[]string{"event", "outcome"},
)

func IncWebhookEvent(event, outcome string) {
	webhookEventsTotal.WithLabelValues(norm(event), norm(outcome)).Inc()
}
