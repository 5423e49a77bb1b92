// Package metrics exposes guess counters and rule set statistics to
// Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds guess metrics for direct instrumentation of the guess API.
type Metrics struct {
	Guesses         prometheus.Counter
	GuessErrors     prometheus.Counter
	GuessDuration   prometheus.Histogram
	PropertiesFound *prometheus.CounterVec
}

// New creates and registers guess metrics with the given registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Guesses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guessit",
			Subsystem: "guess",
			Name:      "total",
			Help:      "Total guesses.",
		}),
		GuessErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guessit",
			Subsystem: "guess",
			Name:      "errors_total",
			Help:      "Guesses that failed with an internal error.",
		}),
		GuessDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "guessit",
			Subsystem: "guess",
			Name:      "duration_seconds",
			Help:      "Duration of guesses.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		PropertiesFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guessit",
			Name:      "properties_found_total",
			Help:      "Properties reported by guesses.",
		}, []string{"property"}),
	}

	reg.MustRegister(
		m.Guesses,
		m.GuessErrors,
		m.GuessDuration,
		m.PropertiesFound,
	)

	return m
}

// ObserveGuess records one guess.
func (m *Metrics) ObserveGuess(d time.Duration, properties []string, err error) {
	m.Guesses.Inc()
	m.GuessDuration.Observe(d.Seconds())
	if err != nil {
		m.GuessErrors.Inc()
		return
	}
	for _, p := range properties {
		m.PropertiesFound.WithLabelValues(p).Inc()
	}
}
