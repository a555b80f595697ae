package reorg

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/blockdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/txdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/storage/kv"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// BlockIndex is the chain index as used by the engine.
	BlockIndex interface {
		Tip() (blockdb.Tip, bool)
		Block(hash chainhash.Hash) (blockdb.BlockRecord, error)
		Next(hash chainhash.Hash) (chainhash.Hash, bool, error)
		StageAddBlock(w kv.Writer, block *model.Block, height int64) error
		StageSetMain(w kv.Writer, hash chainhash.Hash, height int64) error
		StageSetNotMain(w kv.Writer, hash chainhash.Hash) error
		StageSetNext(w kv.Writer, hash, next chainhash.Hash) error
		StageDeleteNext(w kv.Writer, hash chainhash.Hash) error
		StageTip(w kv.Writer, tip blockdb.Tip) error
		Commit(b *kv.Batch, tip *blockdb.Tip) error
	}
	// TxIndex is the transaction index as used by the engine.
	TxIndex interface {
		NewResolver() *txdb.Resolver
		StageTransaction(w kv.Writer, tx *model.Transaction, seen time.Time, res *txdb.Resolver) (txdb.Recorded, error)
		NotifyActivity(recs ...txdb.Recorded)
	}
	// Metrics records engine outcomes.
	Metrics interface {
		ObserveStore(action string, err error, started time.Time)
		ObserveReorg(orphaned, reconnected int)
	}
)
