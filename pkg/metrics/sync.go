package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels shared by the sync and checkout collectors.
const (
	OutcomeOK       = "ok"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
	OutcomeTimeout  = "timeout"
)

// SyncMetrics tracks the cart/favorites synchronizer.
type SyncMetrics struct {
	mutations  *prometheus.CounterVec
	flushed    *prometheus.CounterVec
	reconciles *prometheus.CounterVec
}

// NewSyncMetrics registers the synchronizer metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_mutations_total",
		Help: "Collection mutations by collection, scope and outcome.",
	}, []string{"collection", "scope", "outcome"})
	flushed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_flush_entries_total",
		Help: "Guest entries pushed during the login merge, by outcome.",
	}, []string{"collection", "outcome"})
	reconciles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_reconciles_total",
		Help: "Background re-fetches triggered by failed remote mutations.",
	}, []string{"collection", "outcome"})
	reg.MustRegister(mutations, flushed, reconciles)
	return &SyncMetrics{mutations: mutations, flushed: flushed, reconciles: reconciles}
}

func (m *SyncMetrics) IncMutation(collection, scope, outcome string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(collection), normalizeLabel(scope), normalizeLabel(outcome)).Inc()
}

func (m *SyncMetrics) IncFlush(collection, outcome string) {
	if m == nil || m.flushed == nil {
		return
	}
	m.flushed.WithLabelValues(normalizeLabel(collection), normalizeLabel(outcome)).Inc()
}

func (m *SyncMetrics) IncReconcile(collection, outcome string) {
	if m == nil || m.reconciles == nil {
		return
	}
	m.reconciles.WithLabelValues(normalizeLabel(collection), normalizeLabel(outcome)).Inc()
}
