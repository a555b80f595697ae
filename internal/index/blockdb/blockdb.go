// Package blockdb is the chain index: block linkage, main-chain heights, the chain tip
// and the location of every confirmed transaction.
package blockdb

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/schema"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/storage/kv"
	"go.uber.org/zap"
)

var (
	// ErrBlockNotFound is returned for hashes or heights that are not indexed yet.
	ErrBlockNotFound = errors.New("block not found")
	// ErrTxNotConfirmed is returned by BlockForTx when no main-chain block holds the transaction.
	ErrTxNotConfirmed = errors.New("transaction not confirmed")
	// ErrVersionMismatch is returned when the store was written by an incompatible layout.
	ErrVersionMismatch = errors.New("index layout version mismatch")
)

// Tip is the best main-chain block.
type Tip = schema.Location

// Location is where a confirmed transaction lives.
type Location = schema.Location

// BlockRecord is a stored block.
type BlockRecord struct {
	Hash   chainhash.Hash
	Prev   chainhash.Hash
	Height int64
	Time   time.Time
}

// IsMain reports whether the block is on the main chain.
func (b BlockRecord) IsMain() bool { return b.Height >= 0 }

// BlockDB reads and writes the chain index. The tip is served from memory and only
// replaced after the write that persisted it succeeded.
type BlockDB struct {
	store  kv.Store
	logger *zap.Logger

	mu     sync.RWMutex
	tip    Tip
	hasTip bool
}

// New opens the chain index on store, checking the layout version and loading the tip.
func New(store kv.Store, logger *zap.Logger) (*BlockDB, error) {
	db := &BlockDB{store: store, logger: logger.Named("blockdb")}
	if err := db.checkVersion(); err != nil {
		return nil, err
	}

	raw, err := store.Get(schema.TipKey())
	switch {
	case errors.Is(err, kv.ErrNotFound):
		db.logger.Info("empty chain index")
	case err != nil:
		return nil, fmt.Errorf("load tip: %w", err)
	default:
		tip, err := schema.DecodeLocation(raw)
		if err != nil {
			return nil, fmt.Errorf("decode tip: %w", err)
		}
		db.tip, db.hasTip = tip, true
		db.logger.Info("loaded chain tip", zap.Stringer("hash", tip.Hash), zap.Int64("height", tip.Height))
	}
	return db, nil
}

func (db *BlockDB) checkVersion() error {
	raw, err := db.store.Get(schema.VersionKey())
	if errors.Is(err, kv.ErrNotFound) {
		return db.store.Put(schema.VersionKey(), schema.EncodeVersion(schema.Version))
	}
	if err != nil {
		return fmt.Errorf("read layout version: %w", err)
	}
	v, err := schema.DecodeVersion(raw)
	if err != nil {
		return err
	}
	if v != schema.Version {
		return fmt.Errorf("%w: stored %d, want %d", ErrVersionMismatch, v, schema.Version)
	}
	return nil
}

// Tip returns the cached chain tip. ok is false for an empty index.
func (db *BlockDB) Tip() (tip Tip, ok bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.tip, db.hasTip
}

// Has reports whether the block is indexed, on or off the main chain.
func (db *BlockDB) Has(hash chainhash.Hash) (bool, error) {
	return db.store.Has(schema.BlockKey(hash))
}

// Block returns the stored record of hash.
func (db *BlockDB) Block(hash chainhash.Hash) (BlockRecord, error) {
	raw, err := db.store.Get(schema.BlockKey(hash))
	if errors.Is(err, kv.ErrNotFound) {
		return BlockRecord{}, fmt.Errorf("%w: %s", ErrBlockNotFound, hash)
	}
	if err != nil {
		return BlockRecord{}, fmt.Errorf("get block %s: %w", hash, err)
	}
	v, err := schema.DecodeBlock(raw)
	if err != nil {
		return BlockRecord{}, fmt.Errorf("decode block %s: %w", hash, err)
	}
	return BlockRecord{Hash: hash, Prev: v.Prev, Height: v.Height, Time: v.Time}, nil
}

// Height returns the main-chain height of hash, or schema.NotMain.
func (db *BlockDB) Height(hash chainhash.Hash) (int64, error) {
	rec, err := db.Block(hash)
	if err != nil {
		return 0, err
	}
	return rec.Height, nil
}

// Prev returns the parent hash of hash.
func (db *BlockDB) Prev(hash chainhash.Hash) (chainhash.Hash, error) {
	rec, err := db.Block(hash)
	if err != nil {
		return chainhash.Hash{}, err
	}
	return rec.Prev, nil
}

// Next returns the main-chain successor of hash. ok is false at the tip and off the main chain.
func (db *BlockDB) Next(hash chainhash.Hash) (next chainhash.Hash, ok bool, err error) {
	raw, err := db.store.Get(schema.NextKey(hash))
	if errors.Is(err, kv.ErrNotFound) {
		return chainhash.Hash{}, false, nil
	}
	if err != nil {
		return chainhash.Hash{}, false, fmt.Errorf("get next of %s: %w", hash, err)
	}
	next, err = schema.DecodeHash(raw)
	if err != nil {
		return chainhash.Hash{}, false, err
	}
	return next, true, nil
}

// HashAtHeight returns the main-chain block at height.
func (db *BlockDB) HashAtHeight(height int64) (chainhash.Hash, error) {
	if height < 0 {
		return chainhash.Hash{}, fmt.Errorf("%w: height %d", ErrBlockNotFound, height)
	}
	raw, err := db.store.Get(schema.HeightKey(height))
	if errors.Is(err, kv.ErrNotFound) {
		return chainhash.Hash{}, fmt.Errorf("%w: height %d", ErrBlockNotFound, height)
	}
	if err != nil {
		return chainhash.Hash{}, fmt.Errorf("get hash at height %d: %w", height, err)
	}
	return schema.DecodeHash(raw)
}

// TxIDs returns the transactions of a block in block order.
func (db *BlockDB) TxIDs(hash chainhash.Hash) ([]chainhash.Hash, error) {
	raw, err := db.store.Get(schema.BlockTxsKey(hash))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, hash)
	}
	if err != nil {
		return nil, fmt.Errorf("get txs of block %s: %w", hash, err)
	}
	return schema.DecodeTxIDs(raw)
}

// BlockForTx returns the main-chain block holding txid.
func (db *BlockDB) BlockForTx(txid chainhash.Hash) (Location, error) {
	raw, err := db.store.Get(schema.TxLocationKey(txid))
	if errors.Is(err, kv.ErrNotFound) {
		return Location{}, ErrTxNotConfirmed
	}
	if err != nil {
		return Location{}, fmt.Errorf("get location of tx %s: %w", txid, err)
	}
	return schema.DecodeLocation(raw)
}

// BlocksByDateRange returns main-chain blocks with start <= time < end, most recent first.
// A non-positive limit returns every match.
func (db *BlockDB) BlocksByDateRange(start, end time.Time, limit int) ([]BlockRecord, error) {
	var out []BlockRecord
	err := db.store.Iterate(kv.IterOptions{
		Prefix:  schema.BlockTimePrefix(),
		Start:   schema.BlockTimeBound(start),
		End:     schema.BlockTimeBound(end),
		Reverse: true,
	}, func(key, _ []byte) (bool, error) {
		_, hash, err := schema.ParseBlockTimeKey(key)
		if err != nil {
			return false, err
		}
		rec, err := db.Block(hash)
		if err != nil {
			return false, err
		}
		if !rec.IsMain() {
			return true, nil
		}
		out = append(out, rec)
		return limit <= 0 || len(out) < limit, nil
	})
	if err != nil {
		return nil, fmt.Errorf("blocks between %s and %s: %w", start, end, err)
	}
	return out, nil
}
