// Package transport exposes gRPC/HTTP handlers.
package transport

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/historic"
	blockinsight7000v1 "github.com/goodnatureofminers/blockinsight7000-proto/pkg/blockinsight7000/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StatusSource reports the sync status snapshot.
type StatusSource interface {
	Status() historic.Status
}

// ExplorerHandler implements ExplorerServiceServer.
type ExplorerHandler struct {
	blockinsight7000v1.UnimplementedExplorerServiceServer
	status StatusSource
}

// NewExplorerHandler returns an ExplorerHandler reporting health from the sync status.
func NewExplorerHandler(status StatusSource) blockinsight7000v1.ExplorerServiceServer {
	return &ExplorerHandler{status: status}
}

// Health reports server health. A failed sync makes the server unavailable.
func (h *ExplorerHandler) Health(_ context.Context, _ *blockinsight7000v1.HealthRequest) (*blockinsight7000v1.HealthResponse, error) {
	s := h.status.Status()
	if s.Status == historic.StateError {
		return nil, status.Errorf(codes.Unavailable, "sync failed at height %d: %s", s.Height, s.Error)
	}
	return &blockinsight7000v1.HealthResponse{
		Status:      blockinsight7000v1.HealthStatus_HEALTH_STATUS_HEALTHY,
		Description: describe(s),
	}, nil
}

func describe(s historic.Status) string {
	switch s.Status {
	case historic.StateSyncing:
		return fmt.Sprintf("syncing from %s: %d/%d (%.2f%%)", s.Source, s.Height, s.BlockChainHeight, s.SyncPercentage)
	case historic.StateFinished:
		return fmt.Sprintf("synced at height %d", s.Height)
	default:
		return string(s.Status)
	}
}
