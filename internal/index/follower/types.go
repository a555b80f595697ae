package follower

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/blockdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/reorg"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/txdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Engine interface {
		StoreTipBlock(ctx context.Context, block *model.Block, allowReorgs bool) (reorg.Result, error)
		RewindTo(ctx context.Context, hash chainhash.Hash) (reorg.Result, error)
	}
	ChainIndex interface {
		Tip() (blockdb.Tip, bool)
		Block(hash chainhash.Hash) (blockdb.BlockRecord, error)
	}
	Node interface {
		BestBlockHash(ctx context.Context) (chainhash.Hash, error)
		Block(ctx context.Context, hash chainhash.Hash) (*model.Block, error)
		Mempool(ctx context.Context) ([]chainhash.Hash, error)
		Transaction(ctx context.Context, txid chainhash.Hash) (*model.Transaction, error)
	}
	// TxRecorder indexes unconfirmed transactions.
	TxRecorder interface {
		RecordTransaction(ctx context.Context, tx *model.Transaction, seen time.Time) (txdb.Recorded, error)
	}
	Metrics interface {
		ObserveIteration(err error, blocks int, started time.Time)
		ObserveMempool(err error, recorded int, started time.Time)
	}
)
