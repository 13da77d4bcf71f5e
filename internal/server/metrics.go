package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the hunt collectors. Each Server gets its own registry so
// tests can build servers side by side.
type Metrics struct {
	registry    *prometheus.Registry
	started     prometheus.Counter
	completed   prometheus.Counter
	submissions *prometheus.CounterVec
	duration    prometheus.Histogram
}

func NewMetrics(store Store) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "apihunt",
			Name:      "hunts_started_total",
			Help:      "Hunt sessions started.",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "apihunt",
			Name:      "hunts_completed_total",
			Help:      "Hunt sessions that solved the terminal clue.",
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apihunt",
			Name:      "submissions_total",
			Help:      "Simulated requests submitted, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "apihunt",
			Name:      "hunt_duration_seconds",
			Help:      "Time from hunt start to solving the terminal clue.",
			Buckets:   []float64{30, 60, 120, 300, 600, 1200, 3600},
		}),
	}
	m.registry.MustRegister(
		m.started,
		m.completed,
		m.submissions,
		m.duration,
		&sessionCollector{store: store},
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

var sessionsDesc = prometheus.NewDesc(
	"apihunt_sessions",
	"Stored hunt sessions, by state.",
	[]string{"state"}, nil,
)

// sessionCollector reads session counts from the store on every scrape.
type sessionCollector struct {
	store Store
}

func (c *sessionCollector) Describe(ch chan<- *prometheus.Desc) { ch <- sessionsDesc }

func (c *sessionCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	counts, err := c.store.CountSessions(ctx)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(sessionsDesc, err)
		return
	}
	ch <- prometheus.MustNewConstMetric(sessionsDesc, prometheus.GaugeValue, float64(counts.Active), "active")
	ch <- prometheus.MustNewConstMetric(sessionsDesc, prometheus.GaugeValue, float64(counts.Completed), "completed")
}
