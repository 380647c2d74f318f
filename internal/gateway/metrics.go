package gateway

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

var (
	metricsOnce sync.Once
	metricsInst *metrics
)

// globalMetrics регистрирует метрики один раз на процесс.
func globalMetrics() *metrics {
	metricsOnce.Do(func() {
		metricsInst = &metrics{
			requests: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "remna_admin",
				Subsystem: "gateway",
				Name:      "requests_total",
				Help:      "Remnawave API calls, labeled by verb and outcome",
			}, []string{"verb", "outcome"}),
			durations: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "remna_admin",
				Subsystem: "gateway",
				Name:      "request_duration_seconds",
				Help:      "Duration of Remnawave API calls",
				Buckets:   prometheus.DefBuckets,
			}, []string{"verb"}),
		}
	})
	return metricsInst
}

func (m *metrics) observe(verb Verb, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(string(verb), Outcome(err)).Inc()
	m.durations.WithLabelValues(string(verb)).Observe(d.Seconds())
}
