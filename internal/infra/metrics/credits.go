package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		creditsGrantedTotal,
		creditsConsumedTotal,
	)
}

var (
	creditsGrantedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credits_granted_total",
			Help: "Credits granted through verified settlements, labeled by plan.",
		},
		[]string{"plan"},
	)

	creditsConsumedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "credits_consumed_total",
			Help: "Credits consumed by generations.",
		},
	)
)

func AddCreditsGranted(plan string, amount int64) {
	creditsGrantedTotal.WithLabelValues(norm(plan)).Add(float64(amount))
}

func IncCreditConsumed() {
	creditsConsumedTotal.Inc()
}
