package metrics

import (
	"strconv"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	addressUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "address",
		Name:      "updates_total",
		Help:      "Count of address aggregations.",
	}, []string{"coin", "network", "cached", "status"})
	addressUpdateDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "address",
		Name:      "update_duration_seconds",
		Help:      "Duration of address aggregations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "cached", "status"})
	deadCacheEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "address",
		Name:      "dead_cache_events_total",
		Help:      "Dead-address cache hits, misses, stores, evictions and invalidations.",
	}, []string{"coin", "network", "event"})
)

// Address tracks metrics for the address aggregator and its dead-address cache.
type Address struct {
	labels
}

// NewAddress constructs an Address collector.
func NewAddress(coin model.Coin, network model.Network) *Address {
	return &Address{labels: newLabels(coin, network)}
}

// ObserveUpdate records one aggregation.
func (m Address) ObserveUpdate(err error, cached bool, started time.Time) {
	status := statusLabel(err)
	c := strconv.FormatBool(cached)
	addressUpdatesTotal.WithLabelValues(m.coin, m.network, c, status).Inc()
	addressUpdateDuration.WithLabelValues(m.coin, m.network, c, status).Observe(time.Since(started).Seconds())
}

// ObserveCache counts n dead-cache events.
func (m Address) ObserveCache(event string, n int) {
	deadCacheEventsTotal.WithLabelValues(m.coin, m.network, event).Add(float64(n))
}
