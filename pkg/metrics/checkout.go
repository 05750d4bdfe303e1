package metrics

import "github.com/prometheus/client_golang/prometheus"

// CheckoutMetrics counts order attempts and the amounts placed.
type CheckoutMetrics struct {
	attempts *prometheus.CounterVec
	amount   prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by result (ok or the failure code).",
	}, []string{"result"})
	amount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_order_amount",
		Help:    "Total amount of placed orders.",
		Buckets: prometheus.ExponentialBuckets(10000, 4, 8),
	})
	reg.MustRegister(attempts, amount)
	return &CheckoutMetrics{attempts: attempts, amount: amount}
}

// IncAttempt records a checkout result; result is OutcomeOK or an error code.
func (m *CheckoutMetrics) IncAttempt(result string) {
	if m == nil || m.attempts == nil {
		return
	}
	m.attempts.WithLabelValues(normalizeLabel(result)).Inc()
}

func (m *CheckoutMetrics) ObserveAmount(amount float64) {
	if m == nil || m.amount == nil {
		return
	}
	m.amount.Observe(amount)
}
