package txdb

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-indexer/pkg/batcher"
	"go.uber.org/zap"
)

// CacheBatcher persists confirmation caches in the background, coalescing the writes of
// concurrent readers into rate-limited batches.
type CacheBatcher struct {
	db      *TxDB
	batcher *batcher.Batcher[*Output]
}

// NewCacheBatcher wraps db. Start must be called before use.
func NewCacheBatcher(db *TxDB, opts batcher.Options, logger *zap.Logger) *CacheBatcher {
	c := &CacheBatcher{db: db}
	c.batcher = batcher.New(logger.Named("cacheBatcher"), db.CacheConfirmations, opts)
	return c
}

// Start begins flushing.
func (c *CacheBatcher) Start(ctx context.Context) { c.batcher.Start(ctx) }

// Stop flushes pending writes and stops.
func (c *CacheBatcher) Stop() { c.batcher.Stop() }

// Flush writes everything queued so far.
func (c *CacheBatcher) Flush(ctx context.Context) error { return c.batcher.Flush(ctx) }

// CacheConfirmations queues copies of the cacheable outputs. The caller keeps ownership of outs.
func (c *CacheBatcher) CacheConfirmations(ctx context.Context, outs []*Output) error {
	for _, o := range outs {
		if !o.Cacheable() {
			continue
		}
		if err := c.batcher.Add(ctx, o.clone()); err != nil {
			return err
		}
	}
	return nil
}
