package bot

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы обработки апдейта.
const (
	outcomeHandled = "handled"
	outcomeDenied  = "denied"
	outcomeLimited = "limited"
	outcomeDropped = "dropped"
)

var (
	updatesOnce  sync.Once
	updatesTotal *prometheus.CounterVec
)

func countUpdate(kind, outcome string) {
	updatesOnce.Do(func() {
		updatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "remna_admin",
			Subsystem: "bot",
			Name:      "updates_total",
			Help:      "Telegram updates, labeled by kind and outcome",
		}, []string{"kind", "outcome"})
	})
	updatesTotal.WithLabelValues(kind, outcome).Inc()
}
