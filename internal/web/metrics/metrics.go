// Package metrics holds the prometheus collectors of the web front end.
package metrics

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relaone/relaone-web/internal/guard"
)

// Path serves the prometheus metrics.
const Path = "/metrics"

var (
	guardDecisions *prometheus.CounterVec //nolint:gochecknoglobals
	liveSessions   prometheus.Gauge       //nolint:gochecknoglobals
	once           sync.Once              //nolint:gochecknoglobals
)

func register() {
	once.Do(func() {
		guardDecisions = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relaone_guard_decisions_total",
				Help: "Route guard decisions, by route and outcome.",
			},
			[]string{"route", "kind"},
		)

		liveSessions = promauto.NewGauge(prometheus.GaugeOpts{
			Name: "relaone_live_sessions",
			Help: "Browser sessions currently cached in memory.",
		})
	})
}

// ObserveDecision counts one guard decision for route.
func ObserveDecision(route string, kind guard.Kind) {
	register()
	guardDecisions.WithLabelValues(route, kind.String()).Inc()
}

// SetLiveSessions records the number of cached browser sessions.
func SetLiveSessions(n int) {
	register()
	liveSessions.Set(float64(n))
}

// Handler serves the default prometheus registry.
func Handler() fiber.Handler {
	register()

	return adaptor.HTTPHandler(promhttp.Handler())
}
