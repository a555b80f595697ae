package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reorgStoreTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reorg_engine",
		Name:      "store_total",
		Help:      "Count of tip blocks handled by the reorg engine, by outcome.",
	}, []string{"coin", "network", "action", "status"})
	reorgStoreDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "reorg_engine",
		Name:      "store_duration_seconds",
		Help:      "Duration of storing a tip block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "status"})
	reorgBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reorg_engine",
		Name:      "reorg_blocks_total",
		Help:      "Blocks orphaned or reconnected by fork switches.",
	}, []string{"coin", "network", "direction"})
	reorgDepth = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "reorg_engine",
		Name:      "reorg_depth",
		Help:      "Number of main-chain blocks dethroned per fork switch.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"coin", "network"})
)

// ReorgEngine tracks metrics for the reorg engine.
type ReorgEngine struct {
	labels
}

// NewReorgEngine constructs a ReorgEngine collector.
func NewReorgEngine(coin model.Coin, network model.Network) *ReorgEngine {
	return &ReorgEngine{labels: newLabels(coin, network)}
}

// ObserveStore records the outcome of one StoreTipBlock call.
func (m ReorgEngine) ObserveStore(action string, err error, started time.Time) {
	status := statusLabel(err)
	if action == "" {
		action = "none"
	}
	reorgStoreTotal.WithLabelValues(m.coin, m.network, action, status).Inc()
	reorgStoreDuration.WithLabelValues(m.coin, m.network, status).Observe(time.Since(started).Seconds())
}

// ObserveReorg records a fork switch.
func (m ReorgEngine) ObserveReorg(orphaned, reconnected int) {
	reorgBlocksTotal.WithLabelValues(m.coin, m.network, "orphaned").Add(float64(orphaned))
	reorgBlocksTotal.WithLabelValues(m.coin, m.network, "reconnected").Add(float64(reconnected))
	reorgDepth.WithLabelValues(m.coin, m.network).Observe(float64(orphaned))
}
