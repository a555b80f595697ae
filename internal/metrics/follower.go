package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	followerIterationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "follower",
		Name:      "iterations_total",
		Help:      "Count of follower tip checks.",
	}, []string{"coin", "network", "status"})
	followerIterationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "follower",
		Name:      "iteration_duration_seconds",
		Help:      "Duration of a follower tip check.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "status"})
	followerBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "follower",
		Name:      "blocks_total",
		Help:      "Count of blocks stored by the follower.",
	}, []string{"coin", "network"})
	followerMempoolTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "follower",
		Name:      "mempool_syncs_total",
		Help:      "Count of mempool syncs.",
	}, []string{"coin", "network", "status"})
	followerMempoolTxs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "follower",
		Name:      "mempool_transactions_total",
		Help:      "Count of mempool transactions indexed as unconfirmed.",
	}, []string{"coin", "network"})
	followerMempoolDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "follower",
		Name:      "mempool_duration_seconds",
		Help:      "Duration of a mempool sync.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "status"})
)

// Follower tracks metrics for the live follower.
type Follower struct {
	labels
}

// NewFollower constructs a Follower collector.
func NewFollower(coin model.Coin, network model.Network) *Follower {
	return &Follower{labels: newLabels(coin, network)}
}

// ObserveIteration records a tip check and the blocks it stored.
func (m Follower) ObserveIteration(err error, blocks int, started time.Time) {
	status := statusLabel(err)
	followerIterationsTotal.WithLabelValues(m.coin, m.network, status).Inc()
	followerIterationDuration.WithLabelValues(m.coin, m.network, status).Observe(time.Since(started).Seconds())
	followerBlocksTotal.WithLabelValues(m.coin, m.network).Add(float64(blocks))
}

// ObserveMempool records a mempool sync.
func (m Follower) ObserveMempool(err error, recorded int, started time.Time) {
	status := statusLabel(err)
	followerMempoolTotal.WithLabelValues(m.coin, m.network, status).Inc()
	followerMempoolDuration.WithLabelValues(m.coin, m.network, status).Observe(time.Since(started).Seconds())
	followerMempoolTxs.WithLabelValues(m.coin, m.network).Add(float64(recorded))
}
