package bitcoin

import (
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// RPC is the subset of *rpcclient.Client the indexer calls.
	RPC interface {
		GetBlockCount() (int64, error)
		GetBlockHash(blockHeight int64) (*chainhash.Hash, error)
		GetBestBlockHash() (*chainhash.Hash, error)
		GetBlockVerboseTx(blockHash *chainhash.Hash) (*btcjson.GetBlockVerboseTxResult, error)
		GetRawTransactionVerbose(txHash *chainhash.Hash) (*btcjson.TxRawResult, error)
		GetRawMempool() ([]*chainhash.Hash, error)
		SendRawTransaction(tx *wire.MsgTx, allowHighFees bool) (*chainhash.Hash, error)
		EstimateSmartFee(confTarget int64, mode *btcjson.EstimateSmartFeeMode) (*btcjson.EstimateSmartFeeResult, error)
		VerifyMessage(address btcutil.Address, signature, message string) (bool, error)
	}

	// RPCMetrics records metrics for RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
)
