package explorer

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/address"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/blockdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/historic"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/txdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Addresses interface {
		Update(ctx context.Context, address string, opts address.Options) (*address.Address, error)
	}
	Transactions interface {
		TxInfo(ctx context.Context, txid chainhash.Hash) (*txdb.TxInfo, error)
	}
	ChainIndex interface {
		Tip() (blockdb.Tip, bool)
		Block(hash chainhash.Hash) (blockdb.BlockRecord, error)
		Next(hash chainhash.Hash) (chainhash.Hash, bool, error)
		HashAtHeight(height int64) (chainhash.Hash, error)
		TxIDs(hash chainhash.Hash) ([]chainhash.Hash, error)
		BlocksByDateRange(start, end time.Time, limit int) ([]blockdb.BlockRecord, error)
	}
	Node interface {
		Transaction(ctx context.Context, txid chainhash.Hash) (*model.Transaction, error)
		SendRawTransaction(ctx context.Context, rawHex string) (chainhash.Hash, error)
		EstimateFee(ctx context.Context, blocks int64) (bitcoin.FeeEstimate, error)
		VerifyMessage(ctx context.Context, address, signature, message string) (bool, error)
	}
	StatusSource interface {
		Status() historic.Status
	}
)
