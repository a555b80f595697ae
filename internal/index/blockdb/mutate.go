package blockdb

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/schema"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/storage/kv"
)

// The Stage* methods write into w without committing. Reads they perform see the
// committed store only, so a caller staging a whole chain transition must stage the
// blocks leaving the main chain before the blocks joining it.

// StageAddBlock stores a new block at height. A non-negative height also places it on the main chain.
func (db *BlockDB) StageAddBlock(w kv.Writer, block *model.Block, height int64) error {
	if height < schema.NotMain {
		return fmt.Errorf("invalid height %d for block %s", height, block.Hash)
	}
	rec := schema.BlockValue{Prev: block.PrevHash, Height: height, Time: block.Timestamp}
	if err := w.Put(schema.BlockKey(block.Hash), schema.EncodeBlock(rec)); err != nil {
		return err
	}
	if err := w.Put(schema.BlockTimeKey(block.Timestamp, block.Hash), nil); err != nil {
		return err
	}
	txids := block.TxIDs()
	if err := w.Put(schema.BlockTxsKey(block.Hash), schema.EncodeTxIDs(txids)); err != nil {
		return err
	}
	if height == schema.NotMain {
		return nil
	}
	return stageMain(w, block.Hash, height, txids)
}

// StageSetMain moves a stored block onto the main chain at height and confirms its transactions.
func (db *BlockDB) StageSetMain(w kv.Writer, hash chainhash.Hash, height int64) error {
	if height < 0 {
		return fmt.Errorf("invalid main-chain height %d for block %s", height, hash)
	}
	rec, err := db.Block(hash)
	if err != nil {
		return err
	}
	txids, err := db.TxIDs(hash)
	if err != nil {
		return err
	}
	val := schema.BlockValue{Prev: rec.Prev, Height: height, Time: rec.Time}
	if err := w.Put(schema.BlockKey(hash), schema.EncodeBlock(val)); err != nil {
		return err
	}
	return stageMain(w, hash, height, txids)
}

func stageMain(w kv.Writer, hash chainhash.Hash, height int64, txids []chainhash.Hash) error {
	if err := w.Put(schema.HeightKey(height), schema.EncodeHash(hash)); err != nil {
		return err
	}
	loc := schema.EncodeLocation(Location{Hash: hash, Height: height})
	for _, txid := range txids {
		if err := w.Put(schema.TxLocationKey(txid), loc); err != nil {
			return err
		}
	}
	return nil
}

// StageSetNotMain takes a block off the main chain. Height and tx-location entries are
// removed only while they still point at this block, so a transaction also mined in
// another main-chain block keeps its location.
func (db *BlockDB) StageSetNotMain(w kv.Writer, hash chainhash.Hash) error {
	rec, err := db.Block(hash)
	if err != nil {
		return err
	}
	txids, err := db.TxIDs(hash)
	if err != nil {
		return err
	}
	val := schema.BlockValue{Prev: rec.Prev, Height: schema.NotMain, Time: rec.Time}
	if err := w.Put(schema.BlockKey(hash), schema.EncodeBlock(val)); err != nil {
		return err
	}
	if err := w.Delete(schema.NextKey(hash)); err != nil {
		return err
	}
	if rec.Height >= 0 {
		at, err := db.HashAtHeight(rec.Height)
		switch {
		case errors.Is(err, ErrBlockNotFound):
		case err != nil:
			return err
		case at == hash:
			if err := w.Delete(schema.HeightKey(rec.Height)); err != nil {
				return err
			}
		}
	}
	for _, txid := range txids {
		loc, err := db.BlockForTx(txid)
		if errors.Is(err, ErrTxNotConfirmed) {
			continue
		}
		if err != nil {
			return err
		}
		if loc.Hash != hash {
			continue
		}
		if err := w.Delete(schema.TxLocationKey(txid)); err != nil {
			return err
		}
	}
	return nil
}

// StageSetNext links hash to its main-chain successor.
func (db *BlockDB) StageSetNext(w kv.Writer, hash, next chainhash.Hash) error {
	return w.Put(schema.NextKey(hash), schema.EncodeHash(next))
}

// StageDeleteNext unlinks the successor of hash.
func (db *BlockDB) StageDeleteNext(w kv.Writer, hash chainhash.Hash) error {
	return w.Delete(schema.NextKey(hash))
}

// StageTip persists a new tip. The cached tip changes only through Commit.
func (db *BlockDB) StageTip(w kv.Writer, tip Tip) error {
	return w.Put(schema.TipKey(), schema.EncodeLocation(tip))
}

// Commit writes b atomically and, when tip is set, replaces the cached tip after the write succeeded.
func (db *BlockDB) Commit(b *kv.Batch, tip *Tip) error {
	if err := db.store.Write(b); err != nil {
		return fmt.Errorf("commit chain index batch: %w", err)
	}
	if tip != nil {
		db.mu.Lock()
		db.tip, db.hasTip = *tip, true
		db.mu.Unlock()
	}
	return nil
}

// AddBlock stores a block at height in its own batch.
func (db *BlockDB) AddBlock(block *model.Block, height int64) error {
	b := kv.NewBatch()
	if err := db.StageAddBlock(b, block, height); err != nil {
		return err
	}
	return db.Commit(b, nil)
}

// SetMain places a stored block on the main chain at height in its own batch.
func (db *BlockDB) SetMain(hash chainhash.Hash, height int64) error {
	b := kv.NewBatch()
	if err := db.StageSetMain(b, hash, height); err != nil {
		return err
	}
	return db.Commit(b, nil)
}

// SetNotMain takes a block off the main chain in its own batch.
func (db *BlockDB) SetNotMain(hash chainhash.Hash) error {
	b := kv.NewBatch()
	if err := db.StageSetNotMain(b, hash); err != nil {
		return err
	}
	return db.Commit(b, nil)
}

// SetNext links hash to next.
func (db *BlockDB) SetNext(hash, next chainhash.Hash) error {
	b := kv.NewBatch()
	if err := db.StageSetNext(b, hash, next); err != nil {
		return err
	}
	return db.Commit(b, nil)
}

// SetTip persists and caches a new tip.
func (db *BlockDB) SetTip(tip Tip) error {
	b := kv.NewBatch()
	if err := db.StageTip(b, tip); err != nil {
		return err
	}
	return db.Commit(b, &tip)
}
