// Package metrics collects Prometheus metrics for credential operations and
// exposes them for scraping.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation names used as the "operation" label.
const (
	OpSignUp           = "sign_up"
	OpSignIn           = "sign_in"
	OpRenewTokens      = "renew_tokens"
	OpSignOut          = "sign_out"
	OpCreateInvitation = "create_registration_link"
	OpCheckInvitation  = "validate_registration_key"
)

// Recorder is what services report into.
type Recorder interface {
	RecordOperation(operation string, err error)
	RecordPasswordHash(d time.Duration)
}

// Nop drops every observation.
type Nop struct{}

func (Nop) RecordOperation(string, error)    {}
func (Nop) RecordPasswordHash(time.Duration) {}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	operations   *prometheus.CounterVec
	passwordHash prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics in reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatekeeper_auth_operations_total",
			Help: "Credential operations by outcome.",
		}, []string{"operation", "outcome"}),
		passwordHash: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gatekeeper_password_hash_seconds",
			Help:    "Time spent hashing or verifying passwords.",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
	}

	reg.MustRegister(c.operations, c.passwordHash)

	return c
}

func (c *Collector) RecordOperation(operation string, err error) {
	c.operations.WithLabelValues(operation, Outcome(err)).Inc()
}

func (c *Collector) RecordPasswordHash(d time.Duration) {
	c.passwordHash.Observe(d.Seconds())
}

// Outcome reduces err to a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, common.ErrorBadRequest):
		return "bad_request"
	case errors.Is(err, common.ErrorUnauthorized):
		return "unauthorized"
	case errors.Is(err, common.ErrorNotFound):
		return "not_found"
	case errors.Is(err, common.ErrorConflict):
		return "conflict"
	default:
		return "internal"
	}
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
