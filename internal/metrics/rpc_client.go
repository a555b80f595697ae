package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc_client",
		Name:      "operations_total",
		Help:      "Count of node RPC operations.",
	}, []string{"operation", "coin", "network", "status"})
	rpcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "rpc_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of node RPC operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "coin", "network", "status"})
)

// RPCClient tracks metrics for RPC calls to the node.
type RPCClient struct {
	labels
}

// NewRPCClient constructs a metrics collector for RPC calls.
func NewRPCClient(coin model.Coin, network model.Network) *RPCClient {
	return &RPCClient{labels: newLabels(coin, network)}
}

// Observe records a single RPC call outcome and duration.
func (m RPCClient) Observe(operation string, err error, started time.Time) {
	status := statusLabel(err)
	rpcRequestsTotal.WithLabelValues(operation, m.coin, m.network, status).Inc()
	rpcRequestDuration.WithLabelValues(operation, m.coin, m.network, status).Observe(time.Since(started).Seconds())
}
