package txdb

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/blockdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// ChainIndex answers confirmation questions.
	ChainIndex interface {
		Tip() (blockdb.Tip, bool)
		BlockForTx(txid chainhash.Hash) (blockdb.Location, error)
	}
	// TxSource returns full transaction detail from the node.
	TxSource interface {
		Transaction(ctx context.Context, txid chainhash.Hash) (*model.Transaction, error)
	}
	// ActivityListener is told about every address funded or spent by a recorded transaction.
	ActivityListener interface {
		AddressActivity(addresses []string)
	}
	// Metrics records index operations.
	Metrics interface {
		ObserveFill(err error, outputs int, started time.Time)
		ObserveCacheWrite(err error, writes int, started time.Time)
	}
)
