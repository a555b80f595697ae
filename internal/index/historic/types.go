package historic

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/blockdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/reorg"
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
		Has(hash chainhash.Hash) (bool, error)
		Block(hash chainhash.Hash) (blockdb.BlockRecord, error)
		HashAtHeight(height int64) (chainhash.Hash, error)
	}
	// Node is the authoritative RPC view of the chain.
	Node interface {
		BlockCount(ctx context.Context) (int64, error)
		BlockHash(ctx context.Context, height int64) (chainhash.Hash, error)
		Block(ctx context.Context, hash chainhash.Hash) (*model.Block, error)
	}
	// BlockReader streams blocks from bulk files in storage order. NextBlock returns io.EOF at the end.
	BlockReader interface {
		NextBlock(ctx context.Context) (*model.Block, error)
		Close() error
	}
	BlockFiles interface {
		Open(ctx context.Context) (BlockReader, error)
	}
	ProgressObserver interface {
		SyncProgress(status Status)
	}
	Metrics interface {
		ObserveBlock(source string, err error, started time.Time)
		SetProgress(height, nodeHeight int64, percentage float64)
		SetState(state string, source string)
	}
)
