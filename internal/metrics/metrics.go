// Package metrics exposes Prometheus collectors for logins, store mutations
// and live event subscribers.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the service and API layers report to.
type Recorder interface {
	RecordLogin(outcome string)
	RecordMutation(collection, op, outcome string)
	SetEventClients(n int)
}

// Outcome label values.
const (
	OutcomeSuccess     = "success"
	OutcomeFailure     = "failure"
	OutcomeRateLimited = "rate_limited"
	OutcomeNoop        = "noop"
	OutcomeInvalid     = "invalid"
	OutcomeError       = "error"
)

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	logins       *prometheus.CounterVec
	mutations    *prometheus.CounterVec
	eventClients prometheus.Gauge
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_login_attempts_total",
			Help: "Admin login attempts by outcome.",
		}, []string{"outcome"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_store_mutations_total",
			Help: "Record store mutations by collection, operation and outcome.",
		}, []string{"collection", "op", "outcome"}),
		eventClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "folio_event_clients",
			Help: "Connected server-sent event clients.",
		}),
	}
	reg.MustRegister(c.logins, c.mutations, c.eventClients)
	return c
}

// RecordLogin counts a login attempt.
func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// RecordMutation counts a store mutation.
func (c *Collector) RecordMutation(collection, op, outcome string) {
	c.mutations.WithLabelValues(collection, op, outcome).Inc()
}

// SetEventClients reports the number of connected SSE clients.
func (c *Collector) SetEventClients(n int) {
	c.eventClients.Set(float64(n))
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordLogin(string) {}

func (Nop) RecordMutation(string, string, string) {}

func (Nop) SetEventClients(int) {}

// Logins exposes the login counter for assertions.
func (c *Collector) Logins() *prometheus.CounterVec { return c.logins }

// Mutations exposes the mutation counter for assertions.
func (c *Collector) Mutations() *prometheus.CounterVec { return c.mutations }
