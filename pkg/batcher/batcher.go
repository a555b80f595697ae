// Package batcher provides a generic buffered batch processor with rate limiting.
package batcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// ErrStopped is returned by Add once the batcher has been stopped.
var ErrStopped = errors.New("batcher stopped")

// Options tune batching behaviour.
type Options struct {
	// Size flushes the buffer once it holds this many items.
	Size int
	// Interval flushes a non-empty buffer at least this often.
	Interval time.Duration
	// RPS caps the number of flush callbacks per second.
	RPS int
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = 256
	}
	if o.Interval <= 0 {
		o.Interval = time.Second
	}
	if o.RPS <= 0 {
		o.RPS = 10
	}
	return o
}

// Batcher buffers items and flushes them either by size, interval or on demand.
type Batcher[T any] struct {
	flushCallback func(context.Context, []T) error
	itemsCh       chan T
	flushReq      chan chan struct{}
	opts          Options
	rl            ratelimit.Limiter
	logger        *zap.Logger

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

// New constructs a Batcher.
func New[T any](logger *zap.Logger, flushCallback func(context.Context, []T) error, opts Options) *Batcher[T] {
	opts = opts.withDefaults()
	return &Batcher[T]{
		logger:        logger,
		flushCallback: flushCallback,
		itemsCh:       make(chan T, opts.Size*2),
		flushReq:      make(chan chan struct{}),
		opts:          opts,
		rl:            ratelimit.New(opts.RPS),
		stop:          make(chan struct{}),
	}
}

// Start begins the background flushing loop.
func (b *Batcher[T]) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.run(ctx)
}

// Stop flushes what is buffered and stops the background loop. It is safe to call more than once.
func (b *Batcher[T]) Stop() {
	b.stopOnce.Do(func() { close(b.stop) })
	b.wg.Wait()
}

// Add queues an item for batching, respecting context cancellation.
func (b *Batcher[T]) Add(ctx context.Context, item T) error {
	select {
	case <-b.stop:
		return ErrStopped
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.stop:
		return ErrStopped
	case b.itemsCh <- item:
		return nil
	}
}

// Flush forces the buffered items out and waits until the callback returned.
func (b *Batcher[T]) Flush(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.stop:
		return ErrStopped
	case b.flushReq <- done:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (b *Batcher[T]) run(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.opts.Interval)
	defer ticker.Stop()

	buf := make([]T, 0, b.opts.Size)

	drain := func() {
		for {
			select {
			case item := <-b.itemsCh:
				buf = append(buf, item)
			default:
				return
			}
		}
	}

	flush := func(ctx context.Context) {
		if len(buf) == 0 {
			return
		}

		b.rl.Take()
		if err := b.flushCallback(ctx, buf); err != nil {
			b.logger.Error("batch not flushed", zap.Int("size", len(buf)), zap.Error(err))
		} else {
			b.logger.Debug("batch flushed", zap.Int("size", len(buf)))
		}
		buf = buf[:0]
	}

	for {
		select {
		case <-ctx.Done():
			drain()
			flush(context.WithoutCancel(ctx))
			return

		case <-b.stop:
			drain()
			flush(context.WithoutCancel(ctx))
			return

		case done := <-b.flushReq:
			drain()
			flush(ctx)
			close(done)

		case item := <-b.itemsCh:
			buf = append(buf, item)
			if len(buf) >= b.opts.Size {
				flush(ctx)
			}

		case <-ticker.C:
			flush(ctx)
		}
	}
}
