// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sync outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

var (
	syncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rules_service_sync_runs_total",
		Help: "Synchronization cycles by dataset and outcome",
	}, []string{"dataset", "outcome"})

	syncItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rules_service_sync_items_total",
		Help: "Items inserted or deleted by reconciliation",
	}, []string{"dataset", "action"})

	syncDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rules_service_sync_duration_seconds",
		Help:    "Duration of a synchronization cycle including the upstream fetch",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"dataset"})

	lockSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rules_service_lock_skipped_total",
		Help: "Job runs skipped because another instance held the lock",
	}, []string{"lock"})

	signedListUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rules_service_signed_list_updates_total",
		Help: "Signed lists created or replaced",
	}, []string{"dataset"})
)

// ObserveSync records one synchronization cycle.
// Call with time.Now() taken at the start of the cycle.
func ObserveSync(dataset, outcome string, start time.Time) {
	syncRuns.WithLabelValues(dataset, outcome).Inc()
	syncDuration.WithLabelValues(dataset).Observe(time.Since(start).Seconds())
}

// AddSyncItems records inserted and deleted item counts.
func AddSyncItems(dataset string, inserted, deleted int) {
	syncItems.WithLabelValues(dataset, "inserted").Add(float64(inserted))
	syncItems.WithLabelValues(dataset, "deleted").Add(float64(deleted))
}

// IncLockSkipped records a run skipped for lack of the lock.
func IncLockSkipped(lock string) {
	lockSkipped.WithLabelValues(lock).Inc()
}

// IncSignedListUpdate records a signed list write.
func IncSignedListUpdate(dataset string) {
	signedListUpdates.WithLabelValues(dataset).Inc()
}
