// Package reorg applies new tip blocks to the chain and transaction indexes and repairs them on fork switches.
package reorg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/blockdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/txdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/storage/kv"
	"go.uber.org/zap"
)

const defaultMaxReorgDepth = 1000

// ErrNeedSync signals that a block cannot be connected to the indexed chain and a full catch-up is required.
var ErrNeedSync = errors.New("no path to sync block")

// Action tells what StoreTipBlock did.
type Action string

const (
	ActionGenesis   Action = "genesis"
	ActionExtend    Action = "extend"
	ActionFork      Action = "fork"
	ActionReorg     Action = "reorg"
	ActionDuplicate Action = "duplicate"
	ActionIgnored   Action = "ignored"
	ActionRewind    Action = "rewind"
)

// Result describes an applied block.
type Result struct {
	Action Action
	Tip    blockdb.Tip
	// Orphaned lists blocks taken off the main chain, lowest first.
	Orphaned []chainhash.Hash
	// Reconnected lists known side-chain blocks put back on the main chain, lowest first.
	Reconnected []chainhash.Hash
	// UnconfirmedInputs counts inputs of the new block whose outputs are not indexed.
	UnconfirmedInputs int
}

// Config tunes the engine.
type Config struct {
	// MaxReorgDepth bounds how many blocks a fork switch may walk on either side.
	MaxReorgDepth int64
}

// Engine is the single writer of the chain index. Calls are serialized; a caller waits for
// the running transition or gives up when its context ends.
type Engine struct {
	blocks   BlockIndex
	txs      TxIndex
	metrics  Metrics
	logger   *zap.Logger
	maxDepth int64

	lock chan struct{}
}

// New builds an engine.
func New(blocks BlockIndex, txs TxIndex, metrics Metrics, cfg Config, logger *zap.Logger) (*Engine, error) {
	if blocks == nil || txs == nil {
		return nil, errors.New("reorg engine requires block and tx indexes")
	}
	if metrics == nil {
		return nil, errors.New("reorg engine metrics is required")
	}
	if cfg.MaxReorgDepth <= 0 {
		cfg.MaxReorgDepth = defaultMaxReorgDepth
	}
	return &Engine{
		blocks:   blocks,
		txs:      txs,
		metrics:  metrics,
		logger:   logger.Named("reorg"),
		maxDepth: cfg.MaxReorgDepth,
		lock:     make(chan struct{}, 1),
	}, nil
}

func (e *Engine) acquire(ctx context.Context) error {
	select {
	case e.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) release() { <-e.lock }

// StoreTipBlock applies block as the new chain tip. With allowReorgs false a block that does
// not extend the tip is ignored. A block whose ancestry is unknown yields ErrNeedSync.
func (e *Engine) StoreTipBlock(ctx context.Context, block *model.Block, allowReorgs bool) (res Result, err error) {
	if err := e.acquire(ctx); err != nil {
		return Result{}, err
	}
	defer e.release()

	started := time.Now()
	defer func() {
		e.metrics.ObserveStore(string(res.Action), err, started)
	}()

	res, err = e.store(block, allowReorgs)
	if err != nil {
		return res, fmt.Errorf("store block %s: %w", block.Hash, err)
	}
	return res, nil
}

func (e *Engine) store(block *model.Block, allowReorgs bool) (Result, error) {
	tip, hasTip := e.blocks.Tip()

	known, err := e.blocks.Block(block.Hash)
	switch {
	case err == nil:
		if known.IsMain() {
			return Result{Action: ActionDuplicate, Tip: tip}, nil
		}
		if !allowReorgs {
			return e.ignore(block, tip, "known side-chain block"), nil
		}
		return e.switchBranch(nil, block.Hash, tip)
	case !errors.Is(err, blockdb.ErrBlockNotFound):
		return Result{}, err
	}

	if !hasTip {
		if !block.IsGenesis() {
			return Result{}, fmt.Errorf("%w: empty index cannot start at %s", ErrNeedSync, block.Hash)
		}
		b := kv.NewBatch()
		return e.attach(b, block, nil, 0, Result{Action: ActionGenesis})
	}

	if block.PrevHash == tip.Hash {
		b := kv.NewBatch()
		prev := tip.Hash
		return e.attach(b, block, &prev, tip.Height+1, Result{Action: ActionExtend})
	}

	if !allowReorgs {
		return e.ignore(block, tip, "does not extend tip"), nil
	}
	return e.switchBranch(block, block.PrevHash, tip)
}

func (e *Engine) ignore(block *model.Block, tip blockdb.Tip, reason string) Result {
	e.logger.Info("ignoring block",
		zap.Stringer("hash", block.Hash),
		zap.Stringer("prev", block.PrevHash),
		zap.Stringer("tip", tip.Hash),
		zap.String("reason", reason))
	return Result{Action: ActionIgnored, Tip: tip}
}

// switchBranch walks back from start to the main chain, takes the blocks above the fork
// point off the main chain and puts the walked branch back on it. When block is nil the
// branch already ends with a stored block that becomes the tip.
func (e *Engine) switchBranch(block *model.Block, start chainhash.Hash, tip blockdb.Tip) (Result, error) {
	var branch []chainhash.Hash
	cursor := start
	var fork blockdb.BlockRecord
	for {
		rec, err := e.blocks.Block(cursor)
		if errors.Is(err, blockdb.ErrBlockNotFound) {
			return Result{}, fmt.Errorf("%w: ancestor %s is unknown", ErrNeedSync, cursor)
		}
		if err != nil {
			return Result{}, err
		}
		if rec.IsMain() {
			fork = rec
			break
		}
		branch = append(branch, cursor)
		if int64(len(branch)) > e.maxDepth {
			return Result{}, fmt.Errorf("%w: side branch deeper than %d blocks", ErrNeedSync, e.maxDepth)
		}
		cursor = rec.Prev
	}
	if tip.Height-fork.Height > e.maxDepth {
		return Result{}, fmt.Errorf("%w: fork at height %d is %d blocks below tip", ErrNeedSync, fork.Height, tip.Height-fork.Height)
	}

	orphaned, err := e.mainAbove(fork.Hash, tip)
	if err != nil {
		return Result{}, err
	}

	b := kv.NewBatch()
	for i := len(orphaned) - 1; i >= 0; i-- {
		if err := e.blocks.StageSetNotMain(b, orphaned[i]); err != nil {
			return Result{}, fmt.Errorf("dethrone %s: %w", orphaned[i], err)
		}
	}

	res := Result{Action: ActionFork, Orphaned: orphaned}
	if len(branch) > 0 {
		res.Action = ActionReorg
	}
	height, prev := fork.Height, fork.Hash
	for i := len(branch) - 1; i >= 0; i-- {
		height++
		if err := e.blocks.StageSetMain(b, branch[i], height); err != nil {
			return Result{}, fmt.Errorf("reconnect %s: %w", branch[i], err)
		}
		if err := e.blocks.StageSetNext(b, prev, branch[i]); err != nil {
			return Result{}, err
		}
		res.Reconnected = append(res.Reconnected, branch[i])
		prev = branch[i]
	}

	e.logger.Warn("chain reorganization",
		zap.Stringer("fork", fork.Hash),
		zap.Int64("fork_height", fork.Height),
		zap.Stringer("old_tip", tip.Hash),
		zap.Int("orphaned", len(orphaned)),
		zap.Int("reconnected", len(res.Reconnected)))
	e.metrics.ObserveReorg(len(orphaned), len(res.Reconnected))

	if block == nil {
		newTip := blockdb.Tip{Hash: prev, Height: height}
		if err := e.blocks.StageDeleteNext(b, prev); err != nil {
			return Result{}, err
		}
		if err := e.blocks.StageTip(b, newTip); err != nil {
			return Result{}, err
		}
		if err := e.blocks.Commit(b, &newTip); err != nil {
			return Result{}, err
		}
		res.Tip = newTip
		return res, nil
	}
	return e.attach(b, block, &prev, height+1, res)
}

// mainAbove lists the main-chain blocks after from up to and including tip, lowest first.
func (e *Engine) mainAbove(from chainhash.Hash, tip blockdb.Tip) ([]chainhash.Hash, error) {
	if from == tip.Hash {
		return nil, nil
	}
	var out []chainhash.Hash
	cursor := from
	for {
		next, ok, err := e.blocks.Next(cursor)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("main chain broken after %s before reaching tip %s", cursor, tip.Hash)
		}
		out = append(out, next)
		if next == tip.Hash {
			return out, nil
		}
		if int64(len(out)) > tip.Height+1 {
			return nil, fmt.Errorf("main chain from %s does not reach tip %s", from, tip.Hash)
		}
		cursor = next
	}
}

// attach stages block at height after prev together with its transactions and commits the batch.
func (e *Engine) attach(b *kv.Batch, block *model.Block, prev *chainhash.Hash, height int64, res Result) (Result, error) {
	if err := e.blocks.StageAddBlock(b, block, height); err != nil {
		return Result{}, fmt.Errorf("add block: %w", err)
	}
	if prev != nil {
		if err := e.blocks.StageSetNext(b, *prev, block.Hash); err != nil {
			return Result{}, err
		}
	}
	resolver := e.txs.NewResolver()
	recs := make([]txdb.Recorded, 0, len(block.Transactions))
	for i := range block.Transactions {
		rec, err := e.txs.StageTransaction(b, &block.Transactions[i], block.Timestamp, resolver)
		if err != nil {
			return Result{}, fmt.Errorf("stage tx %s: %w", block.Transactions[i].TxID, err)
		}
		res.UnconfirmedInputs += len(rec.UnconfirmedInputs)
		recs = append(recs, rec)
	}

	tip := blockdb.Tip{Hash: block.Hash, Height: height}
	if err := e.blocks.StageTip(b, tip); err != nil {
		return Result{}, err
	}
	if err := e.blocks.Commit(b, &tip); err != nil {
		return Result{}, err
	}
	e.txs.NotifyActivity(recs...)

	res.Tip = tip
	e.logger.Debug("stored block",
		zap.String("action", string(res.Action)),
		zap.Stringer("hash", block.Hash),
		zap.Int64("height", height),
		zap.Int("txs", len(block.Transactions)))
	return res, nil
}

// RewindTo takes every block above hash off the main chain so hash becomes the tip.
func (e *Engine) RewindTo(ctx context.Context, hash chainhash.Hash) (res Result, err error) {
	if err := e.acquire(ctx); err != nil {
		return Result{}, err
	}
	defer e.release()

	started := time.Now()
	defer func() {
		e.metrics.ObserveStore(string(ActionRewind), err, started)
	}()

	tip, ok := e.blocks.Tip()
	if !ok {
		return Result{}, fmt.Errorf("rewind to %s: %w", hash, blockdb.ErrBlockNotFound)
	}
	rec, err := e.blocks.Block(hash)
	if err != nil {
		return Result{}, fmt.Errorf("rewind to %s: %w", hash, err)
	}
	if !rec.IsMain() {
		return Result{}, fmt.Errorf("rewind to %s: block is not on the main chain", hash)
	}
	if hash == tip.Hash {
		return Result{Action: ActionRewind, Tip: tip}, nil
	}

	orphaned, err := e.mainAbove(hash, tip)
	if err != nil {
		return Result{}, fmt.Errorf("rewind to %s: %w", hash, err)
	}
	b := kv.NewBatch()
	for i := len(orphaned) - 1; i >= 0; i-- {
		if err := e.blocks.StageSetNotMain(b, orphaned[i]); err != nil {
			return Result{}, fmt.Errorf("rewind to %s: %w", hash, err)
		}
	}
	newTip := blockdb.Tip{Hash: hash, Height: rec.Height}
	if err := e.blocks.StageDeleteNext(b, hash); err != nil {
		return Result{}, err
	}
	if err := e.blocks.StageTip(b, newTip); err != nil {
		return Result{}, err
	}
	if err := e.blocks.Commit(b, &newTip); err != nil {
		return Result{}, fmt.Errorf("rewind to %s: %w", hash, err)
	}

	e.logger.Warn("rewound chain",
		zap.Stringer("from", tip.Hash),
		zap.Int64("from_height", tip.Height),
		zap.Stringer("to", hash),
		zap.Int64("to_height", rec.Height),
		zap.Int("orphaned", len(orphaned)))
	e.metrics.ObserveReorg(len(orphaned), 0)
	return Result{Action: ActionRewind, Tip: newTip, Orphaned: orphaned}, nil
}
