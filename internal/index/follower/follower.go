// Package follower keeps the index at the node's best block once bulk sync is done, and
// optionally indexes mempool transactions as unconfirmed.
package follower

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/container/lru"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/blockdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/reorg"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
	"go.uber.org/zap"
)

const (
	defaultPollInterval  = 5 * time.Second
	defaultRetryInterval = 5 * time.Second
	defaultMaxBackfill   = 100
	defaultMempoolSeen   = 100_000
)

// Config tunes the follower.
type Config struct {
	// PollInterval is the wait between best-block checks when no block signal arrives.
	PollInterval time.Duration
	// RetryInterval is the wait after a failed iteration.
	RetryInterval time.Duration
	// MaxBackfill bounds how many missing parents are fetched before a full sync is required.
	MaxBackfill int
	// Mempool enables indexing of mempool transactions.
	Mempool bool
	// MempoolSeen bounds the set of mempool transactions remembered as indexed.
	MempoolSeen uint32
}

// Follower feeds new node blocks to the reorg engine.
type Follower struct {
	engine   Engine
	chain    ChainIndex
	node     Node
	recorder TxRecorder
	metrics  Metrics
	logger   *zap.Logger

	sleep         func(context.Context, time.Duration) error
	pollInterval  time.Duration
	retryInterval time.Duration
	maxBackfill   int
	mempool       bool
	seen          *lru.Set[chainhash.Hash]
	blockSignal   <-chan struct{}
}

// New builds a follower. recorder may be nil when mempool following is off. blockSignal, when
// set, wakes the follower before the poll interval elapses.
func New(
	engine Engine,
	chain ChainIndex,
	node Node,
	recorder TxRecorder,
	metrics Metrics,
	cfg Config,
	logger *zap.Logger,
	blockSignal <-chan struct{},
) (*Follower, error) {
	if engine == nil || chain == nil || node == nil {
		return nil, errors.New("follower requires an engine, a chain index and a node")
	}
	if metrics == nil {
		return nil, errors.New("follower metrics is required")
	}
	if cfg.Mempool && recorder == nil {
		return nil, errors.New("mempool following requires a transaction recorder")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaultRetryInterval
	}
	if cfg.MaxBackfill <= 0 {
		cfg.MaxBackfill = defaultMaxBackfill
	}
	if cfg.MempoolSeen == 0 {
		cfg.MempoolSeen = defaultMempoolSeen
	}
	return &Follower{
		engine:        engine,
		chain:         chain,
		node:          node,
		recorder:      recorder,
		metrics:       metrics,
		logger:        logger.Named("follower"),
		sleep:         clock.SleepWithContext,
		pollInterval:  cfg.PollInterval,
		retryInterval: cfg.RetryInterval,
		maxBackfill:   cfg.MaxBackfill,
		mempool:       cfg.Mempool,
		seen:          lru.NewSet[chainhash.Hash](cfg.MempoolSeen),
		blockSignal:   blockSignal,
	}, nil
}

// Run follows the node until ctx ends. It returns an error wrapping reorg.ErrNeedSync when the
// node moved to a chain the follower cannot connect, so the caller can run a bulk sync again.
func (f *Follower) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := f.run(ctx); err != nil {
			if errors.Is(err, reorg.ErrNeedSync) {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.logger.Warn("run iteration failed, backing off", zap.Error(err), zap.Duration("sleep", f.retryInterval))
			if sleepErr := f.sleep(ctx, f.retryInterval); sleepErr != nil {
				return sleepErr
			}
		}
	}
}

func (f *Follower) run(ctx context.Context) error {
	started := time.Now()
	blocks, err := f.followTip(ctx)
	f.metrics.ObserveIteration(err, blocks, started)
	if err != nil {
		return err
	}
	if f.mempool {
		started = time.Now()
		recorded, err := f.syncMempool(ctx)
		f.metrics.ObserveMempool(err, recorded, started)
		if err != nil {
			return fmt.Errorf("sync mempool: %w", err)
		}
	}
	return f.wait(ctx, f.pollInterval)
}

// followTip brings the index to the node's best block and returns how many blocks it stored.
func (f *Follower) followTip(ctx context.Context) (int, error) {
	best, err := f.node.BestBlockHash(ctx)
	if err != nil {
		return 0, err
	}
	if tip, ok := f.chain.Tip(); ok && tip.Hash == best {
		return 0, nil
	}

	rec, known, err := f.known(best)
	if err != nil {
		return 0, err
	}
	if known && rec.IsMain() {
		// the node went back to a block we already have on the main chain
		res, err := f.engine.RewindTo(ctx, best)
		if err != nil {
			return 0, fmt.Errorf("rewind to node tip %s: %w", best, err)
		}
		f.logger.Warn("node tip moved below index tip, rewound",
			zap.Stringer("tip", best), zap.Int("orphaned", len(res.Orphaned)))
		return 0, nil
	}

	missing, err := f.backfill(ctx, best, known)
	if err != nil {
		return 0, err
	}
	for i := len(missing) - 1; i >= 0; i-- {
		block := missing[i]
		res, err := f.engine.StoreTipBlock(ctx, block, true)
		if err != nil {
			return len(missing) - 1 - i, err
		}
		f.logger.Debug("stored block",
			zap.Stringer("hash", block.Hash),
			zap.String("action", string(res.Action)),
			zap.Int64("height", res.Tip.Height))
		if len(res.Orphaned) > 0 {
			f.logger.Info("followed node reorg",
				zap.Stringer("tip", res.Tip.Hash),
				zap.Int("orphaned", len(res.Orphaned)),
				zap.Int("reconnected", len(res.Reconnected)))
		}
	}
	return len(missing), nil
}

// backfill fetches best and its unindexed ancestors, newest first. A known best is fetched
// alone so the engine can switch to it.
func (f *Follower) backfill(ctx context.Context, best chainhash.Hash, bestKnown bool) ([]*model.Block, error) {
	var missing []*model.Block
	hash := best
	for {
		if len(missing) >= f.maxBackfill {
			return nil, fmt.Errorf("more than %d blocks behind node tip %s: %w", f.maxBackfill, best, reorg.ErrNeedSync)
		}
		block, err := f.node.Block(ctx, hash)
		if err != nil {
			return nil, err
		}
		missing = append(missing, block)
		if bestKnown || block.IsGenesis() {
			return missing, nil
		}
		_, known, err := f.known(block.PrevHash)
		if err != nil {
			return nil, err
		}
		if known {
			return missing, nil
		}
		hash = block.PrevHash
	}
}

func (f *Follower) known(hash chainhash.Hash) (blockdb.BlockRecord, bool, error) {
	rec, err := f.chain.Block(hash)
	if errors.Is(err, blockdb.ErrBlockNotFound) {
		return blockdb.BlockRecord{}, false, nil
	}
	if err != nil {
		return blockdb.BlockRecord{}, false, fmt.Errorf("lookup block %s: %w", hash, err)
	}
	return rec, true, nil
}

// syncMempool indexes mempool transactions not seen before. Transactions that left the
// mempool between listing and fetching are skipped.
func (f *Follower) syncMempool(ctx context.Context) (int, error) {
	ids, err := f.node.Mempool(ctx)
	if err != nil {
		return 0, err
	}
	recorded := 0
	for _, txid := range ids {
		if f.seen.Contains(txid) {
			continue
		}
		tx, err := f.node.Transaction(ctx, txid)
		if errors.Is(err, bitcoin.ErrNotFound) {
			continue
		}
		if err != nil {
			return recorded, err
		}
		if _, err := f.recorder.RecordTransaction(ctx, tx, time.Time{}); err != nil {
			return recorded, err
		}
		f.seen.Put(txid)
		recorded++
	}
	if recorded > 0 {
		f.logger.Debug("indexed mempool transactions", zap.Int("recorded", recorded), zap.Int("mempool", len(ids)))
	}
	return recorded, nil
}

func (f *Follower) wait(ctx context.Context, d time.Duration) error {
	if f.blockSignal == nil {
		return f.sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.blockSignal:
		return nil
	case <-timer.C:
		return nil
	}
}
