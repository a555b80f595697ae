package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	kvOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "kv_store",
		Name:      "operations_total",
		Help:      "Count of key-value store operations.",
	}, []string{"engine", "operation", "status"})
	kvOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "kv_store",
		Name:      "operation_duration_seconds",
		Help:      "Duration of key-value store operations.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"engine", "operation", "status"})
	kvBatchOps = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "kv_store",
		Name:      "batch_operations",
		Help:      "Number of mutations per committed batch.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{"engine"})
	kvBatchBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "kv_store",
		Name:      "batch_bytes",
		Help:      "Size of committed batches in bytes.",
		Buckets:   prometheus.ExponentialBuckets(64, 4, 12),
	}, []string{"engine"})
)

// KVStore tracks metrics for the key-value store.
type KVStore struct {
	engine string
}

// NewKVStore constructs a collector for the store engine.
func NewKVStore(engine string) *KVStore {
	if engine == "" {
		engine = "unknown"
	}
	return &KVStore{engine: engine}
}

// Observe records a store operation outcome and duration.
func (m KVStore) Observe(operation string, err error, started time.Time) {
	status := statusLabel(err)
	kvOperationsTotal.WithLabelValues(m.engine, operation, status).Inc()
	kvOperationDuration.WithLabelValues(m.engine, operation, status).Observe(time.Since(started).Seconds())
}

// ObserveBatch records the size of a committed batch.
func (m KVStore) ObserveBatch(ops, bytes int) {
	kvBatchOps.WithLabelValues(m.engine).Observe(float64(ops))
	kvBatchBytes.WithLabelValues(m.engine).Observe(float64(bytes))
}
