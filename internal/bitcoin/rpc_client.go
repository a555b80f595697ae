package bitcoin

import (
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// RPCClient wraps btc rpcclient with metrics instrumentation.
type RPCClient struct {
	client     RPC
	rpcMetrics RPCMetrics
}

// NewRPCClient constructs an instrumented RPC client.
func NewRPCClient(client RPC, rpcMetrics RPCMetrics) *RPCClient {
	return &RPCClient{
		client:     client,
		rpcMetrics: rpcMetrics,
	}
}

// GetBlockCount returns the latest block count.
func (r *RPCClient) GetBlockCount() (count int64, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_count", err, started)
	}()
	return r.client.GetBlockCount()
}

// GetBlockHash returns the block hash for a height.
func (r *RPCClient) GetBlockHash(blockHeight int64) (hash *chainhash.Hash, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_hash", err, started)
	}()
	return r.client.GetBlockHash(blockHeight)
}

// GetBestBlockHash returns the hash of the node tip.
func (r *RPCClient) GetBestBlockHash() (hash *chainhash.Hash, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_best_block_hash", err, started)
	}()
	return r.client.GetBestBlockHash()
}

// GetBlockVerboseTx returns a verbose block with transactions.
func (r *RPCClient) GetBlockVerboseTx(blockHash *chainhash.Hash) (res *btcjson.GetBlockVerboseTxResult, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_verbose_tx", err, started)
	}()
	return r.client.GetBlockVerboseTx(blockHash)
}

// GetRawTransactionVerbose returns a decoded transaction.
func (r *RPCClient) GetRawTransactionVerbose(txHash *chainhash.Hash) (res *btcjson.TxRawResult, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_raw_transaction_verbose", err, started)
	}()
	return r.client.GetRawTransactionVerbose(txHash)
}

// GetRawMempool lists the mempool transaction ids.
func (r *RPCClient) GetRawMempool() (res []*chainhash.Hash, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_raw_mempool", err, started)
	}()
	return r.client.GetRawMempool()
}

// SendRawTransaction relays tx.
func (r *RPCClient) SendRawTransaction(tx *wire.MsgTx, allowHighFees bool) (hash *chainhash.Hash, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("send_raw_transaction", err, started)
	}()
	return r.client.SendRawTransaction(tx, allowHighFees)
}

// EstimateSmartFee estimates the fee rate for confirmation within confTarget blocks.
func (r *RPCClient) EstimateSmartFee(confTarget int64, mode *btcjson.EstimateSmartFeeMode) (res *btcjson.EstimateSmartFeeResult, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("estimate_smart_fee", err, started)
	}()
	return r.client.EstimateSmartFee(confTarget, mode)
}

// VerifyMessage checks a signed message.
func (r *RPCClient) VerifyMessage(address btcutil.Address, signature, message string) (ok bool, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("verify_message", err, started)
	}()
	return r.client.VerifyMessage(address, signature, message)
}
