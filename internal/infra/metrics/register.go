package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerMu sync.Mutex
	pending    []prometheus.Collector
	once       sync.Once
)

// register queues collectors from per-concern init() funcs.
func register(cs ...prometheus.Collector) {
	registerMu.Lock()
	defer registerMu.Unlock()
	pending = append(pending, cs...)
}

// MustRegister registers all queued collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		registerMu.Lock()
		defer registerMu.Unlock()
		prometheus.MustRegister(pending...)
	})
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
