//go:build zmq

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"syscall"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/clock"
	"github.com/pebbe/zmq4"
	"go.uber.org/zap"
)

// startBlockSignal subscribes to the node's hashblock notifications. The returned channel
// coalesces bursts into a single pending wake-up.
func startBlockSignal(ctx context.Context, addr string, logger *zap.Logger) (<-chan struct{}, error) {
	if addr == "" {
		return nil, nil
	}

	sub, err := newSubscriber(addr, "hashblock")
	if err != nil {
		return nil, fmt.Errorf("connect zmq %s: %w", addr, err)
	}
	if err := sub.SetRcvtimeo(time.Second); err != nil {
		sub.Close()
		return nil, fmt.Errorf("set zmq receive timeout: %w", err)
	}

	notify := make(chan struct{}, 1)
	logger = logger.Named("zmq")

	go func() {
		defer sub.Close()
		for ctx.Err() == nil {
			parts, err := sub.RecvMessageBytes(0)
			if err != nil {
				if zmq4.AsErrno(err) == zmq4.Errno(syscall.EAGAIN) {
					continue
				}
				logger.Warn("zmq recv failed", zap.Error(err))
				if clock.SleepWithContext(ctx, time.Second) != nil {
					return
				}
				continue
			}
			if len(parts) < 2 {
				logger.Warn("skip malformed zmq message", zap.Int("parts", len(parts)))
				continue
			}
			logger.Debug("block announced", zap.String("hash", hex.EncodeToString(parts[1])))

			select {
			case notify <- struct{}{}:
			default:
			}
		}
	}()

	return notify, nil
}

func newSubscriber(addr string, topics ...string) (*zmq4.Socket, error) {
	sub, err := zmq4.NewSocket(zmq4.SUB)
	if err != nil {
		return nil, err
	}

	for _, topic := range topics {
		if err := sub.SetSubscribe(topic); err != nil {
			sub.Close()
			return nil, err
		}
	}

	if err := sub.Connect(addr); err != nil {
		sub.Close()
		return nil, err
	}
	return sub, nil
}
