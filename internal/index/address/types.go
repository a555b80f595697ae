package address

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/txdb"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	OutputIndex interface {
		OutputsForAddress(ctx context.Context, address string, opts txdb.QueryOptions) ([]*txdb.Output, error)
		FillConfirmations(ctx context.Context, outs []*txdb.Output) error
		TxInfo(ctx context.Context, txid chainhash.Hash) (*txdb.TxInfo, error)
	}
	// ConfirmationCache persists cache states found by FillConfirmations.
	ConfirmationCache interface {
		CacheConfirmations(ctx context.Context, outs []*txdb.Output) error
	}
	Cache interface {
		Get(address string) (*Address, bool)
		Put(address string, a *Address)
	}
	Metrics interface {
		ObserveUpdate(err error, cached bool, started time.Time)
		ObserveCache(event string, n int)
	}
)
