// internal/metrics/metrics.go
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

const namespace = "chads"

// Metrics groups the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing, so services and tests can run without a registry.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	transfersCreated  *prometheus.CounterVec
	transferDecisions *prometheus.CounterVec
	settledVolume     prometheus.Counter

	messagesSent *prometheus.CounterVec
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		transfersCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfers_created_total",
				Help:      "Transfers created, by direction",
			},
			[]string{"direction"},
		),
		transferDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfer_decisions_total",
				Help:      "Decide calls, by outcome",
			},
			[]string{"outcome"},
		),
		settledVolume: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "settled_points_total",
				Help:      "Points moved by accepted transfers",
			},
		),
		messagesSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_sent_total",
				Help:      "Messages appended to the log, by kind",
			},
			[]string{"kind"},
		),
	}
}

// Decision outcomes.
const (
	OutcomeAccepted          = "accepted"
	OutcomeDeclined          = "declined"
	OutcomeInsufficientFunds = "insufficient_funds"
	OutcomeRejected          = "rejected"
)

// ObserveHTTPRequest records one served request. route is the matched route
// pattern, never the raw path.
func (m *Metrics) ObserveHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) TransferCreated(direction string) {
	if m == nil {
		return
	}
	m.transfersCreated.WithLabelValues(direction).Inc()
}

func (m *Metrics) TransferDecision(outcome string) {
	if m == nil {
		return
	}
	m.transferDecisions.WithLabelValues(outcome).Inc()
}

// TransferSettled adds amount to the settled volume.
func (m *Metrics) TransferSettled(amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.settledVolume.Add(amount.InexactFloat64())
}

func (m *Metrics) MessageSent(kind string) {
	if m == nil {
		return
	}
	m.messagesSent.WithLabelValues(kind).Inc()
}
