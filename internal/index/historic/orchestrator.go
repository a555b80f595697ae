// Package historic catches the index up with the node before live following starts.
package historic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/dustin/go-humanize"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/blockdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/reorg"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
	"go.uber.org/zap"
)

const (
	defaultFileThreshold    = 0.96
	defaultProgressInterval = 10 * time.Second
	defaultMaxResyncs       = 3
	defaultReorderBuffer    = 4096
)

var (
	// ErrNetworkMismatch means the node or the local index belongs to another network.
	ErrNetworkMismatch = errors.New("network mismatch")
	// ErrStartBlockNotFound means the configured start block is not on the indexed main chain.
	ErrStartBlockNotFound = errors.New("start block not found")

	errStopReached = errors.New("stop block reached")
)

// Config tunes the orchestrator.
type Config struct {
	// Genesis is the expected genesis hash of the configured network. Zero skips the node check.
	Genesis chainhash.Hash
	// StartHash rewinds the index to this main-chain block before syncing.
	StartHash *chainhash.Hash
	// StopAt ends the sync once this block is stored.
	StopAt *chainhash.Hash
	// FileThreshold is the fraction of the node height below which bulk files are read.
	FileThreshold    float64
	ProgressInterval time.Duration
	// MaxResyncs bounds how often a sync restarts after the engine asks for one.
	MaxResyncs    int
	ReorderBuffer int
	Backoff       clock.Backoff
}

// Orchestrator drives the reorg engine from bulk files or RPC until the index reaches the node tip.
type Orchestrator struct {
	engine   Engine
	chain    ChainIndex
	node     Node
	files    BlockFiles
	metrics  Metrics
	cfg      Config
	clock    clock.Clock
	logger   *zap.Logger
	observer ProgressObserver

	mu           sync.RWMutex
	status       Status
	lastReported time.Time
}

// New builds an orchestrator. files may be nil, in which case only RPC is used.
func New(engine Engine, chain ChainIndex, node Node, files BlockFiles, metrics Metrics, cfg Config, logger *zap.Logger) (*Orchestrator, error) {
	if engine == nil || chain == nil || node == nil {
		return nil, errors.New("historic sync requires engine, chain index and node")
	}
	if metrics == nil {
		return nil, errors.New("historic sync metrics is required")
	}
	if cfg.FileThreshold <= 0 {
		cfg.FileThreshold = defaultFileThreshold
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = defaultProgressInterval
	}
	if cfg.MaxResyncs <= 0 {
		cfg.MaxResyncs = defaultMaxResyncs
	}
	if cfg.ReorderBuffer <= 0 {
		cfg.ReorderBuffer = defaultReorderBuffer
	}
	return &Orchestrator{
		engine:  engine,
		chain:   chain,
		node:    node,
		files:   files,
		metrics: metrics,
		cfg:     cfg,
		clock:   clock.System{},
		logger:  logger.Named("historic"),
		status:  Status{Status: StateStarting, Height: -1},
	}, nil
}

// SetProgressObserver registers a receiver of periodic status snapshots.
func (o *Orchestrator) SetProgressObserver(obs ProgressObserver) {
	o.observer = obs
}

// Status returns the current progress snapshot.
func (o *Orchestrator) Status() Status {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.status
}

// Run syncs until the node tip or the stop block is reached. A returned error other than a
// context error leaves the orchestrator in the error state.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.update(func(s *Status) {
		s.Status = StateStarting
		s.StartedAt = o.clock.Now()
		s.Error = ""
	})

	err := o.run(ctx)
	switch {
	case err == nil, errors.Is(err, errStopReached):
		o.update(func(s *Status) { s.Status = StateFinished })
		o.report(true)
		o.logger.Info("historic sync finished",
			zap.Int64("height", o.Status().Height),
			zap.Int64("synced_blocks", o.Status().SyncedBlocks))
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		o.update(func(s *Status) {
			s.Status = StateError
			s.Error = err.Error()
		})
		o.report(true)
		o.logger.Error("historic sync failed", zap.Error(err))
		return err
	}
}

func (o *Orchestrator) run(ctx context.Context) error {
	if err := o.checkGenesis(ctx); err != nil {
		return err
	}
	// the start hash applies to the first pass of the first Run only
	startHash := o.cfg.StartHash
	o.cfg.StartHash = nil
	for resyncs := 0; ; resyncs++ {
		nodeHeight, err := o.node.BlockCount(ctx)
		if err != nil {
			return fmt.Errorf("get node block count: %w", err)
		}
		o.update(func(s *Status) { s.BlockChainHeight = nodeHeight })

		if err := o.resume(ctx, startHash, nodeHeight); err != nil {
			return err
		}
		startHash = nil

		o.update(func(s *Status) { s.Status = StateSyncing })
		err = o.sync(ctx, nodeHeight)
		if errors.Is(err, reorg.ErrNeedSync) && resyncs < o.cfg.MaxResyncs {
			o.logger.Warn("block does not connect, restarting sync", zap.Int("resyncs", resyncs+1), zap.Error(err))
			continue
		}
		return err
	}
}

// checkGenesis compares the node genesis with the configured network and the local index.
func (o *Orchestrator) checkGenesis(ctx context.Context) error {
	nodeGenesis, err := o.node.BlockHash(ctx, 0)
	if err != nil {
		return fmt.Errorf("get node genesis: %w", err)
	}
	if o.cfg.Genesis != (chainhash.Hash{}) && nodeGenesis != o.cfg.Genesis {
		return fmt.Errorf("%w: node genesis %s, expected %s", ErrNetworkMismatch, nodeGenesis, o.cfg.Genesis)
	}
	local, err := o.chain.HashAtHeight(0)
	if errors.Is(err, blockdb.ErrBlockNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get local genesis: %w", err)
	}
	if local != nodeGenesis {
		return fmt.Errorf("%w: local genesis %s, node genesis %s", ErrNetworkMismatch, local, nodeGenesis)
	}
	return nil
}

// resume rewinds the index to startHash when given, otherwise to the highest stored block the
// node still has on its main chain.
func (o *Orchestrator) resume(ctx context.Context, startHash *chainhash.Hash, nodeHeight int64) error {
	if startHash != nil {
		rec, err := o.chain.Block(*startHash)
		if errors.Is(err, blockdb.ErrBlockNotFound) {
			return fmt.Errorf("%w: %s", ErrStartBlockNotFound, startHash)
		}
		if err != nil {
			return fmt.Errorf("get start block: %w", err)
		}
		if !rec.IsMain() {
			return fmt.Errorf("%w: %s is not on the main chain", ErrStartBlockNotFound, startHash)
		}
		return o.rewind(ctx, *startHash)
	}

	tip, ok := o.chain.Tip()
	if !ok {
		o.setHeight(-1)
		return nil
	}
	for h := tip.Height; h >= 0; h-- {
		local, err := o.chain.HashAtHeight(h)
		if err != nil {
			return fmt.Errorf("get local block at %d: %w", h, err)
		}
		if h > nodeHeight {
			continue
		}
		remote, err := o.blockHash(ctx, h)
		if err != nil {
			return err
		}
		if remote == local {
			if h == tip.Height {
				o.setHeight(h)
				return nil
			}
			return o.rewind(ctx, local)
		}
	}
	return fmt.Errorf("%w: no stored block is on the node main chain", ErrNetworkMismatch)
}

func (o *Orchestrator) rewind(ctx context.Context, hash chainhash.Hash) error {
	res, err := o.engine.RewindTo(ctx, hash)
	if err != nil {
		return err
	}
	if len(res.Orphaned) > 0 {
		o.logger.Info("resuming below stored tip",
			zap.Stringer("hash", hash),
			zap.Int64("height", res.Tip.Height),
			zap.Int("orphaned", len(res.Orphaned)))
	}
	o.setHeight(res.Tip.Height)
	return nil
}

func (o *Orchestrator) localHeight() int64 {
	if tip, ok := o.chain.Tip(); ok {
		return tip.Height
	}
	return -1
}

func (o *Orchestrator) belowThreshold(nodeHeight int64) bool {
	return float64(o.localHeight()) < o.cfg.FileThreshold*float64(nodeHeight)
}

func (o *Orchestrator) sync(ctx context.Context, nodeHeight int64) error {
	if o.files != nil && o.belowThreshold(nodeHeight) {
		if err := o.syncFromFiles(ctx, nodeHeight); err != nil {
			return err
		}
	}
	return o.syncFromRPC(ctx, nodeHeight)
}

func (o *Orchestrator) syncFromFiles(ctx context.Context, nodeHeight int64) error {
	reader, err := o.files.Open(ctx)
	if err != nil {
		return fmt.Errorf("open block files: %w", err)
	}
	defer func() {
		if cerr := reader.Close(); cerr != nil {
			o.logger.Warn("close block files", zap.Error(cerr))
		}
	}()
	o.setSource(SourceFile)
	o.logger.Info("syncing from block files",
		zap.Int64("height", o.localHeight()),
		zap.Int64("node_height", nodeHeight))

	pending := make(map[chainhash.Hash][]*model.Block)
	buffered := 0
	for o.belowThreshold(nodeHeight) {
		block, err := reader.NextBlock(ctx)
		if errors.Is(err, io.EOF) {
			o.logger.Info("block files exhausted", zap.Int64("height", o.localHeight()), zap.Int("buffered", buffered))
			return nil
		}
		if err != nil {
			return fmt.Errorf("read block file: %w", err)
		}

		if !o.extendsTip(block) {
			known, err := o.chain.Has(block.Hash)
			if err != nil {
				return err
			}
			if known {
				continue
			}
			if buffered >= o.cfg.ReorderBuffer {
				if buffered, err = o.pruneStale(pending); err != nil {
					return err
				}
				if buffered >= o.cfg.ReorderBuffer {
					return fmt.Errorf("reorder buffer full with %d blocks at height %d", buffered, o.localHeight())
				}
			}
			pending[block.PrevHash] = append(pending[block.PrevHash], block)
			buffered++
			continue
		}

		if err := o.apply(ctx, block, false); err != nil {
			return err
		}
		for {
			tip, _ := o.chain.Tip()
			children, ok := pending[tip.Hash]
			if !ok {
				break
			}
			delete(pending, tip.Hash)
			buffered -= len(children)
			for _, child := range children {
				if err := o.apply(ctx, child, false); err != nil {
					return err
				}
			}
		}
	}
	o.logger.Info("switching to rpc near chain tip",
		zap.Int64("height", o.localHeight()),
		zap.Int64("node_height", nodeHeight))
	return nil
}

func (o *Orchestrator) extendsTip(block *model.Block) bool {
	tip, ok := o.chain.Tip()
	if !ok {
		return block.IsGenesis()
	}
	return block.PrevHash == tip.Hash
}

// pruneStale drops buffered blocks whose parent is already stored; those lost a fork race and
// can no longer extend the tip.
func (o *Orchestrator) pruneStale(pending map[chainhash.Hash][]*model.Block) (int, error) {
	remaining := 0
	for prev, blocks := range pending {
		known, err := o.chain.Has(prev)
		if err != nil {
			return 0, err
		}
		if known {
			delete(pending, prev)
			continue
		}
		remaining += len(blocks)
	}
	return remaining, nil
}

func (o *Orchestrator) syncFromRPC(ctx context.Context, nodeHeight int64) error {
	o.setSource(SourceRPC)
	o.logger.Info("syncing from rpc", zap.Int64("height", o.localHeight()), zap.Int64("node_height", nodeHeight))
	for {
		next := o.localHeight() + 1
		if next > nodeHeight {
			latest, err := o.blockCount(ctx)
			if err != nil {
				return err
			}
			if next > latest {
				return nil
			}
			nodeHeight = latest
			o.update(func(s *Status) { s.BlockChainHeight = latest })
		}

		hash, err := o.blockHash(ctx, next)
		if err != nil {
			return err
		}
		var block *model.Block
		err = o.retry(ctx, "get block", func(ctx context.Context) error {
			var err error
			block, err = o.node.Block(ctx, hash)
			return err
		})
		if err != nil {
			return fmt.Errorf("get block %s: %w", hash, err)
		}
		if err := o.apply(ctx, block, true); err != nil {
			return err
		}
	}
}

func (o *Orchestrator) apply(ctx context.Context, block *model.Block, allowReorgs bool) error {
	source := o.Status().Source
	started := time.Now()
	res, err := o.engine.StoreTipBlock(ctx, block, allowReorgs)
	o.metrics.ObserveBlock(string(source), err, started)
	if err != nil {
		return err
	}
	o.update(func(s *Status) {
		s.Height = res.Tip.Height
		switch res.Action {
		case reorg.ActionGenesis, reorg.ActionExtend, reorg.ActionFork, reorg.ActionReorg:
			s.SyncedBlocks++
		}
	})
	o.report(false)
	if o.cfg.StopAt != nil && block.Hash == *o.cfg.StopAt && res.Tip.Hash == block.Hash {
		o.logger.Info("stop block reached", zap.Stringer("hash", block.Hash), zap.Int64("height", res.Tip.Height))
		return errStopReached
	}
	return nil
}

func (o *Orchestrator) blockCount(ctx context.Context) (int64, error) {
	var count int64
	err := o.retry(ctx, "get block count", func(ctx context.Context) error {
		var err error
		count, err = o.node.BlockCount(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("get node block count: %w", err)
	}
	return count, nil
}

func (o *Orchestrator) blockHash(ctx context.Context, height int64) (chainhash.Hash, error) {
	var hash chainhash.Hash
	err := o.retry(ctx, "get block hash", func(ctx context.Context) error {
		var err error
		hash, err = o.node.BlockHash(ctx, height)
		return err
	})
	if err != nil {
		return chainhash.Hash{}, fmt.Errorf("get node block hash at %d: %w", height, err)
	}
	return hash, nil
}

func (o *Orchestrator) retry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return clock.Retry(ctx, o.cfg.Backoff, fn, func(attempt int, err error) {
		o.logger.Warn("rpc call failed, retrying", zap.String("op", op), zap.Int("attempt", attempt), zap.Error(err))
	})
}

func (o *Orchestrator) setHeight(h int64) {
	o.update(func(s *Status) { s.Height = h })
}

func (o *Orchestrator) setSource(src Source) {
	o.update(func(s *Status) { s.Source = src })
	st := o.Status()
	o.metrics.SetState(string(st.Status), string(src))
}

func (o *Orchestrator) update(fn func(s *Status)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	prev := o.status.Status
	fn(&o.status)
	o.status.SyncPercentage = percentage(o.status.Height, o.status.BlockChainHeight)
	o.status.UpdatedAt = o.clock.Now()
	if o.status.Status != prev {
		o.metrics.SetState(string(o.status.Status), string(o.status.Source))
	}
}

// report publishes progress at most once per interval unless forced.
func (o *Orchestrator) report(force bool) {
	st := o.Status()
	now := o.clock.Now()
	if !force && now.Sub(o.lastReported) < o.cfg.ProgressInterval {
		return
	}
	o.lastReported = now
	o.metrics.SetProgress(st.Height, st.BlockChainHeight, st.SyncPercentage)
	o.logger.Info("sync progress",
		zap.String("status", string(st.Status)),
		zap.String("source", string(st.Source)),
		zap.String("height", humanize.Comma(st.Height)),
		zap.String("node_height", humanize.Comma(st.BlockChainHeight)),
		zap.String("percentage", fmt.Sprintf("%.2f%%", st.SyncPercentage)))
	if o.observer != nil {
		o.observer.SyncProgress(st)
	}
}
