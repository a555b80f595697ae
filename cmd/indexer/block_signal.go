//go:build !zmq

package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// startBlockSignal without zmq support leaves the follower on polling.
func startBlockSignal(_ context.Context, addr string, _ *zap.Logger) (<-chan struct{}, error) {
	if addr != "" {
		return nil, fmt.Errorf("zmq address %s set but the binary was built without the zmq tag", addr)
	}
	return nil, nil
}
