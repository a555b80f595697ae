package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	txdbFillTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "txdb",
		Name:      "fill_total",
		Help:      "Count of confirmation fills.",
	}, []string{"coin", "network", "status"})
	txdbFillDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "txdb",
		Name:      "fill_duration_seconds",
		Help:      "Duration of confirmation fills.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "status"})
	txdbFillOutputs = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "txdb",
		Name:      "fill_outputs",
		Help:      "Outputs per confirmation fill.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{"coin", "network"})
	txdbCacheWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "txdb",
		Name:      "cache_writes_total",
		Help:      "Count of confirmation cache entries persisted.",
	}, []string{"coin", "network", "status"})
	txdbCacheWriteDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "txdb",
		Name:      "cache_write_duration_seconds",
		Help:      "Duration of confirmation cache writes.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "status"})
)

// TxDB tracks metrics for the transaction index.
type TxDB struct {
	labels
}

// NewTxDB constructs a TxDB collector.
func NewTxDB(coin model.Coin, network model.Network) *TxDB {
	return &TxDB{labels: newLabels(coin, network)}
}

// ObserveFill records a FillConfirmations call.
func (m TxDB) ObserveFill(err error, outputs int, started time.Time) {
	status := statusLabel(err)
	txdbFillTotal.WithLabelValues(m.coin, m.network, status).Inc()
	txdbFillDuration.WithLabelValues(m.coin, m.network, status).Observe(time.Since(started).Seconds())
	txdbFillOutputs.WithLabelValues(m.coin, m.network).Observe(float64(outputs))
}

// ObserveCacheWrite records a CacheConfirmations write.
func (m TxDB) ObserveCacheWrite(err error, writes int, started time.Time) {
	status := statusLabel(err)
	txdbCacheWritesTotal.WithLabelValues(m.coin, m.network, status).Add(float64(writes))
	txdbCacheWriteDuration.WithLabelValues(m.coin, m.network, status).Observe(time.Since(started).Seconds())
}
