package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(visionLatencyMs)
}

var visionLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "vision_calls_latency_ms",
		Help:    "Vision service call latency distribution in milliseconds.",
		Buckets: []float64{50, 100, 200, 400, 800, 1600, 3000, 5000, 10000, 20000},
	},
	[]string{"operation", "success"},
)

func ObserveVisionCall(operation string, latencyMs int64, success bool) {
	visionLatencyMs.WithLabelValues(norm(operation), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}
