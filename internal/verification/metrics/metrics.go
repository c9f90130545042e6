package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the verification context.
type Metrics struct {
	RequestsCreated   prometheus.Counter
	StatusTransitions *prometheus.CounterVec
	QuotesComputed    prometheus.Counter
	QuoteDuration     prometheus.Histogram
	PaymentMismatches prometheus.Gauge
}

// New creates and registers the collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		RequestsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritask_requests_created_total",
			Help: "Total number of verification requests created.",
		}),
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veritask_status_transitions_total",
			Help: "Status transitions applied to verification requests.",
		}, []string{"from", "to"}),
		QuotesComputed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritask_quotes_computed_total",
			Help: "Itemized price quotes computed by the pricing engine.",
		}),
		QuoteDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "veritask_quote_duration_seconds",
			Help:    "Latency of quote computation including collaborator lookups.",
			Buckets: prometheus.DefBuckets,
		}),
		PaymentMismatches: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "veritask_payment_status_mismatches",
			Help: "Requests found paid while still in PENDING_PAYMENT by the last reconciliation pass.",
		}),
	}
}

// ObserveTransition records one applied status transition.
func (m *Metrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}

// IncrementRequestsCreated bumps the creation counter.
func (m *Metrics) IncrementRequestsCreated() {
	if m == nil {
		return
	}
	m.RequestsCreated.Inc()
}

// IncrementQuotes bumps the quote counter.
func (m *Metrics) IncrementQuotes() {
	if m == nil {
		return
	}
	m.QuotesComputed.Inc()
}

// SetPaymentMismatches records the latest reconciliation finding.
func (m *Metrics) SetPaymentMismatches(n int) {
	if m == nil {
		return
	}
	m.PaymentMismatches.Set(float64(n))
}
