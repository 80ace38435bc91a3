// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the forum points engine.
var (
	// Counters.
	PointsAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_points_awarded_total",
			Help: "Total points awarded, by action",
		},
		[]string{"action"},
	)

	BadgePromotionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_badge_promotions_total",
			Help: "Total badge tier changes persisted by the ledger",
		},
		[]string{"badge"},
	)

	QuotaRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_quota_rejections_total",
			Help: "Post attempts rejected by the daily quota",
		},
		[]string{"badge"},
	)

	BackfillAwardsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_backfill_awards_total",
			Help: "Point awards issued by the backfill job, by outcome",
		},
		[]string{"action", "outcome"}, // outcome: awarded | skipped
	)

	// Gauges.
	BadgeAuditMismatches = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forum_badge_audit_mismatches",
			Help: "Stale badges found by the last nightly audit",
		},
	)
)

// RecordAward records a ledger award.
func RecordAward(action string, delta int) {
	PointsAwardedTotal.WithLabelValues(action).Add(float64(delta))
}

// RecordPromotion records a persisted badge change.
func RecordPromotion(badge string) {
	BadgePromotionsTotal.WithLabelValues(badge).Inc()
}

// RecordQuotaRejection records a post blocked by the daily limit.
func RecordQuotaRejection(badge string) {
	QuotaRejectionsTotal.WithLabelValues(badge).Inc()
}

// RecordBackfill records a backfill item outcome.
func RecordBackfill(action, outcome string) {
	BackfillAwardsTotal.WithLabelValues(action, outcome).Inc()
}

// SetAuditMismatches records the stale-badge count from the audit.
func SetAuditMismatches(n int) {
	BadgeAuditMismatches.Set(float64(n))
}
