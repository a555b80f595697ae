package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var historicStates = []string{"starting", "syncing", "finished", "error"}

var (
	historicBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "historic_sync",
		Name:      "blocks_total",
		Help:      "Count of blocks applied by bulk sync, by source.",
	}, []string{"coin", "network", "source", "status"})
	historicBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "historic_sync",
		Name:      "block_duration_seconds",
		Help:      "Duration of reading and applying one block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "source", "status"})
	historicHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "historic_sync",
		Name:      "height",
		Help:      "Height of the index tip.",
	}, []string{"coin", "network"})
	historicNodeHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "historic_sync",
		Name:      "node_height",
		Help:      "Height of the node tip.",
	}, []string{"coin", "network"})
	historicPercentage = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "historic_sync",
		Name:      "sync_percentage",
		Help:      "Sync progress in percent.",
	}, []string{"coin", "network"})
	historicState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "historic_sync",
		Name:      "state",
		Help:      "Current sync state and source; the active combination is 1.",
	}, []string{"coin", "network", "state", "source"})
)

// HistoricSync tracks metrics for the bulk sync orchestrator.
type HistoricSync struct {
	labels
}

// NewHistoricSync constructs a HistoricSync collector.
func NewHistoricSync(coin model.Coin, network model.Network) *HistoricSync {
	return &HistoricSync{labels: newLabels(coin, network)}
}

// ObserveBlock records one applied block.
func (m HistoricSync) ObserveBlock(source string, err error, started time.Time) {
	status := statusLabel(err)
	historicBlocksTotal.WithLabelValues(m.coin, m.network, source, status).Inc()
	historicBlockDuration.WithLabelValues(m.coin, m.network, source, status).Observe(time.Since(started).Seconds())
}

// SetProgress publishes the sync position.
func (m HistoricSync) SetProgress(height, nodeHeight int64, percentage float64) {
	historicHeight.WithLabelValues(m.coin, m.network).Set(float64(height))
	historicNodeHeight.WithLabelValues(m.coin, m.network).Set(float64(nodeHeight))
	historicPercentage.WithLabelValues(m.coin, m.network).Set(percentage)
}

// SetState marks state and source as the active combination.
func (m HistoricSync) SetState(state string, source string) {
	historicState.DeletePartialMatch(prometheus.Labels{"coin": m.coin, "network": m.network})
	for _, s := range historicStates {
		v := 0.0
		if s == state {
			v = 1
		}
		historicState.WithLabelValues(m.coin, m.network, s, source).Set(v)
	}
}
