// Package metrics holds the Prometheus collectors for roll traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const defaultNamespace = "rollcall"

// Config for the roll metrics
type Config struct {
	// Namespace prefixes every metric name
	Namespace string
}

// RollMetrics tracks rolls, store operations and notifications
type RollMetrics struct {
	RollsTotal          *prometheus.CounterVec   // rolls by mode and visibility
	StoreOpsTotal       *prometheus.CounterVec   // store calls by operation and result
	StoreOpDuration     *prometheus.HistogramVec // store latency by operation
	NotificationsTotal  *prometheus.CounterVec   // publishes by result
	RejectedRollsTotal  *prometheus.CounterVec   // rolls refused before the store by reason
	HistoryFetchedTotal prometheus.Counter       // records returned by history fetches
}

// New creates the roll metrics. Nothing is registered until Register.
func New(cfg *Config) *RollMetrics {
	namespace := defaultNamespace
	if cfg != nil && cfg.Namespace != "" {
		namespace = cfg.Namespace
	}

	return &RollMetrics{
		RollsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rolls_total",
				Help:      "Dice rolls committed to the store",
			},
			[]string{"mode", "visibility"}, // visibility: public/master/hidden
		),
		StoreOpsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Roll store operations",
			},
			[]string{"operation", "result"}, // result: success/failed
		),
		StoreOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_operation_duration_seconds",
				Help:      "Roll store operation latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Campaign change notifications published",
			},
			[]string{"result"},
		),
		RejectedRollsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejected_rolls_total",
				Help:      "Rolls rejected before reaching the store",
			},
			[]string{"reason"}, // reason: validation/authorization
		),
		HistoryFetchedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "history_records_fetched_total",
				Help:      "Roll records returned by history fetches",
			},
		),
	}
}

// Register registers the collectors
func (m *RollMetrics) Register(registerer prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.RollsTotal,
		m.StoreOpsTotal,
		m.StoreOpDuration,
		m.NotificationsTotal,
		m.RejectedRollsTotal,
		m.HistoryFetchedTotal,
	}

	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			return err
		}
	}

	return nil
}

// RecordRoll counts a committed roll
func (m *RollMetrics) RecordRoll(mode, visibility string) {
	if m == nil {
		return
	}
	m.RollsTotal.WithLabelValues(mode, visibility).Inc()
}

// RecordStoreOp records one store call
func (m *RollMetrics) RecordStoreOp(operation string, success bool, duration float64) {
	if m == nil {
		return
	}
	result := "success"
	if !success {
		result = "failed"
	}
	m.StoreOpsTotal.WithLabelValues(operation, result).Inc()
	m.StoreOpDuration.WithLabelValues(operation).Observe(duration)
}

// RecordNotification counts one publish
func (m *RollMetrics) RecordNotification(success bool) {
	if m == nil {
		return
	}
	result := "success"
	if !success {
		result = "failed"
	}
	m.NotificationsTotal.WithLabelValues(result).Inc()
}

// RecordRejected counts a roll refused before the store
func (m *RollMetrics) RecordRejected(reason string) {
	if m == nil {
		return
	}
	m.RejectedRollsTotal.WithLabelValues(reason).Inc()
}

// RecordHistory counts records returned by a fetch
func (m *RollMetrics) RecordHistory(count int) {
	if m == nil {
		return
	}
	m.HistoryFetchedTotal.Add(float64(count))
}
