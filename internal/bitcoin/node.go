package bitcoin

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/decred/dcrd/container/lru"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
)

const defaultTxCacheSize = 10000

// ErrNotFound is returned when the node does not know the requested block or transaction.
var ErrNotFound = errors.New("not found on node")

// FeeEstimate is a node fee rate estimate.
type FeeEstimate struct {
	// FeeRate is in BTC per kilobyte.
	FeeRate float64
	Blocks  int64
}

// Node adapts the RPC client to the index: results become model objects, "not found" becomes
// ErrNotFound and other errors carry the endpoint.
type Node struct {
	rpc      RPC
	conv     *Converter
	endpoint string
	txs      *lru.Map[chainhash.Hash, *model.Transaction]
}

// NewNode builds a node adapter. endpoint identifies the node in errors, as user@host:port.
func NewNode(rpc RPC, conv *Converter, endpoint string, txCacheSize uint32) *Node {
	if txCacheSize == 0 {
		txCacheSize = defaultTxCacheSize
	}
	return &Node{
		rpc:      rpc,
		conv:     conv,
		endpoint: endpoint,
		txs:      lru.NewMap[chainhash.Hash, *model.Transaction](txCacheSize),
	}
}

func (n *Node) wrap(op string, err error) error {
	var rpcErr *btcjson.RPCError
	if errors.As(err, &rpcErr) && rpcErr.Code == btcjson.ErrRPCInvalidAddressOrKey {
		return fmt.Errorf("%s: %w: %s", op, ErrNotFound, rpcErr.Message)
	}
	return fmt.Errorf("rpc %s %s: %w", n.endpoint, op, err)
}

// BlockCount returns the node tip height.
func (n *Node) BlockCount(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count, err := n.rpc.GetBlockCount()
	if err != nil {
		return 0, n.wrap("get block count", err)
	}
	return count, nil
}

// BlockHash returns the main-chain block hash at height.
func (n *Node) BlockHash(ctx context.Context, height int64) (chainhash.Hash, error) {
	if err := ctx.Err(); err != nil {
		return chainhash.Hash{}, err
	}
	hash, err := n.rpc.GetBlockHash(height)
	if err != nil {
		return chainhash.Hash{}, n.wrap(fmt.Sprintf("get block hash at %d", height), err)
	}
	return *hash, nil
}

// BestBlockHash returns the node tip hash.
func (n *Node) BestBlockHash(ctx context.Context) (chainhash.Hash, error) {
	if err := ctx.Err(); err != nil {
		return chainhash.Hash{}, err
	}
	hash, err := n.rpc.GetBestBlockHash()
	if err != nil {
		return chainhash.Hash{}, n.wrap("get best block hash", err)
	}
	return *hash, nil
}

// Block fetches and converts a block with its transactions.
func (n *Node) Block(ctx context.Context, hash chainhash.Hash) (*model.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := n.rpc.GetBlockVerboseTx(&hash)
	if err != nil {
		return nil, n.wrap(fmt.Sprintf("get block %s", hash), err)
	}
	block, err := n.conv.Block(src)
	if err != nil {
		return nil, err
	}
	if block.Hash != hash {
		return nil, fmt.Errorf("node returned block %s for %s", block.Hash, hash)
	}
	return block, nil
}

// Transaction fetches a transaction, serving repeated lookups from memory.
func (n *Node) Transaction(ctx context.Context, txid chainhash.Hash) (*model.Transaction, error) {
	if tx, ok := n.txs.Get(txid); ok {
		return tx, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := n.rpc.GetRawTransactionVerbose(&txid)
	if err != nil {
		return nil, n.wrap(fmt.Sprintf("get transaction %s", txid), err)
	}
	tx, err := n.conv.Transaction(src)
	if err != nil {
		return nil, err
	}
	n.txs.Put(txid, &tx)
	return &tx, nil
}

// Mempool lists the transaction ids in the node mempool.
func (n *Node) Mempool(ctx context.Context) ([]chainhash.Hash, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hashes, err := n.rpc.GetRawMempool()
	if err != nil {
		return nil, n.wrap("get raw mempool", err)
	}
	out := make([]chainhash.Hash, 0, len(hashes))
	for _, h := range hashes {
		out = append(out, *h)
	}
	return out, nil
}

// SendRawTransaction decodes a hex-serialized transaction and relays it.
func (n *Node) SendRawTransaction(ctx context.Context, rawHex string) (chainhash.Hash, error) {
	raw, err := hex.DecodeString(rawHex)
	if err != nil {
		return chainhash.Hash{}, fmt.Errorf("decode raw transaction: %w", err)
	}
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return chainhash.Hash{}, fmt.Errorf("deserialize raw transaction: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return chainhash.Hash{}, err
	}
	hash, err := n.rpc.SendRawTransaction(&tx, false)
	if err != nil {
		return chainhash.Hash{}, n.wrap("send raw transaction", err)
	}
	return *hash, nil
}

// EstimateFee estimates the fee rate for confirmation within blocks blocks.
func (n *Node) EstimateFee(ctx context.Context, blocks int64) (FeeEstimate, error) {
	if err := ctx.Err(); err != nil {
		return FeeEstimate{}, err
	}
	mode := btcjson.EstimateModeConservative
	res, err := n.rpc.EstimateSmartFee(blocks, &mode)
	if err != nil {
		return FeeEstimate{}, n.wrap("estimate smart fee", err)
	}
	if res.FeeRate == nil {
		return FeeEstimate{}, fmt.Errorf("estimate smart fee for %d blocks: %w: %v", blocks, ErrNotFound, res.Errors)
	}
	return FeeEstimate{FeeRate: *res.FeeRate, Blocks: res.Blocks}, nil
}

// VerifyMessage checks that signature signs message for address.
func (n *Node) VerifyMessage(ctx context.Context, address, signature, message string) (bool, error) {
	addr, err := btcutil.DecodeAddress(address, n.conv.Params())
	if err != nil {
		return false, fmt.Errorf("decode address %q: %w", address, err)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := n.rpc.VerifyMessage(addr, signature, message)
	if err != nil {
		return false, n.wrap("verify message", err)
	}
	return ok, nil
}
