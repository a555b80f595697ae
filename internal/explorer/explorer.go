// Package explorer is the read side of the index as served to the API layer. The indexer binary
// exposes only Status over gRPC; the address, transaction, block and relay queries are the
// surface an API server embeds.
package explorer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/address"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/blockdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/historic"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/txdb"
	"go.uber.org/zap"
)

// ErrInvalidAddress is returned for strings that are not addresses of the indexed network.
var ErrInvalidAddress = errors.New("invalid address")

// BlockInfo is a block as served to readers.
type BlockInfo struct {
	Hash          chainhash.Hash
	Prev          chainhash.Hash
	Next          *chainhash.Hash
	Height        int64
	Time          time.Time
	Confirmations int64
	IsMain        bool
	TxIDs         []chainhash.Hash
	// Pool is nil when the miner could not be identified.
	Pool *Pool
}

// UTXO is an unspent output of an address.
type UTXO struct {
	TxID          chainhash.Hash
	Index         uint32
	Address       string
	Value         uint64
	Script        []byte
	Height        int64
	Confirmations int64
	Time          time.Time
}

// Explorer answers address, transaction, block and status queries.
type Explorer struct {
	addresses Addresses
	txs       Transactions
	chain     ChainIndex
	node      Node
	status    StatusSource
	params    *chaincfg.Params
	pools     []Pool
	logger    *zap.Logger
}

// New builds the facade. pools may be nil to skip miner identification.
func New(
	addresses Addresses,
	txs Transactions,
	chain ChainIndex,
	node Node,
	status StatusSource,
	params *chaincfg.Params,
	pools []Pool,
	logger *zap.Logger,
) (*Explorer, error) {
	if addresses == nil || txs == nil || chain == nil || node == nil || status == nil {
		return nil, errors.New("explorer requires addresses, transactions, chain index, node and status")
	}
	if params == nil {
		return nil, errors.New("explorer requires chain params")
	}
	return &Explorer{
		addresses: addresses,
		txs:       txs,
		chain:     chain,
		node:      node,
		status:    status,
		params:    params,
		pools:     pools,
		logger:    logger.Named("explorer"),
	}, nil
}

// Status returns the sync status snapshot.
func (e *Explorer) Status() historic.Status {
	return e.status.Status()
}

// ValidateAddress checks that addr is an address of the indexed network.
func (e *Explorer) ValidateAddress(addr string) error {
	decoded, err := btcutil.DecodeAddress(addr, e.params)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidAddress, addr, err)
	}
	if !decoded.IsForNet(e.params) {
		return fmt.Errorf("%w %q: not a %s address", ErrInvalidAddress, addr, e.params.Name)
	}
	return nil
}

// Address returns the aggregate of addr.
func (e *Explorer) Address(ctx context.Context, addr string, opts address.Options) (*address.Address, error) {
	if err := e.ValidateAddress(addr); err != nil {
		return nil, err
	}
	return e.addresses.Update(ctx, addr, opts)
}

// UTXOs lists the unspent outputs of addr, most recent first.
func (e *Explorer) UTXOs(ctx context.Context, addr string) ([]UTXO, error) {
	if err := e.ValidateAddress(addr); err != nil {
		return nil, err
	}
	agg, err := e.addresses.Update(ctx, addr, address.Options{OnlyUnspent: true})
	if err != nil {
		return nil, err
	}
	out := make([]UTXO, 0, len(agg.Outputs))
	for _, o := range agg.Outputs {
		out = append(out, UTXO{
			TxID:          o.TxID,
			Index:         o.Index,
			Address:       o.Address,
			Value:         o.Value,
			Script:        o.Script,
			Height:        o.Height,
			Confirmations: o.Confirmations,
			Time:          o.Time,
		})
	}
	return out, nil
}

// Transaction returns txid with its inputs filled in from the index.
func (e *Explorer) Transaction(ctx context.Context, txid chainhash.Hash) (*txdb.TxInfo, error) {
	return e.txs.TxInfo(ctx, txid)
}

// Block returns the block hash, including side-chain blocks.
func (e *Explorer) Block(ctx context.Context, hash chainhash.Hash) (*BlockInfo, error) {
	rec, err := e.chain.Block(hash)
	if err != nil {
		return nil, err
	}
	txids, err := e.chain.TxIDs(hash)
	if err != nil {
		return nil, err
	}
	info := &BlockInfo{
		Hash:   rec.Hash,
		Prev:   rec.Prev,
		Height: rec.Height,
		Time:   rec.Time,
		IsMain: rec.IsMain(),
		TxIDs:  txids,
	}
	if info.IsMain {
		if tip, ok := e.chain.Tip(); ok {
			info.Confirmations = tip.Height - rec.Height + 1
		}
		next, ok, err := e.chain.Next(hash)
		if err != nil {
			return nil, err
		}
		if ok {
			info.Next = &next
		}
	}
	if len(txids) > 0 && len(e.pools) > 0 {
		info.Pool = e.pool(ctx, hash, txids[0])
	}
	return info, nil
}

func (e *Explorer) pool(ctx context.Context, block, coinbase chainhash.Hash) *Pool {
	tx, err := e.node.Transaction(ctx, coinbase)
	if err != nil {
		e.logger.Debug("coinbase not available for pool match",
			zap.Stringer("block", block), zap.Stringer("txid", coinbase), zap.Error(err))
		return nil
	}
	return matchPool(e.pools, tx)
}

// BlockByHeight returns the main-chain block at height.
func (e *Explorer) BlockByHeight(ctx context.Context, height int64) (*BlockInfo, error) {
	hash, err := e.chain.HashAtHeight(height)
	if err != nil {
		return nil, err
	}
	return e.Block(ctx, hash)
}

// BlocksByDate lists main-chain blocks with start <= time < end, most recent first.
func (e *Explorer) BlocksByDate(_ context.Context, start, end time.Time, limit int) ([]blockdb.BlockRecord, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("empty date range %s - %s", start, end)
	}
	return e.chain.BlocksByDateRange(start, end, limit)
}

// SendRawTransaction relays a hex-serialized transaction through the node.
func (e *Explorer) SendRawTransaction(ctx context.Context, rawHex string) (chainhash.Hash, error) {
	return e.node.SendRawTransaction(ctx, rawHex)
}

// EstimateFee returns the node fee estimate for confirmation within blocks.
func (e *Explorer) EstimateFee(ctx context.Context, blocks int64) (bitcoin.FeeEstimate, error) {
	if blocks <= 0 {
		return bitcoin.FeeEstimate{}, fmt.Errorf("confirmation target %d must be positive", blocks)
	}
	return e.node.EstimateFee(ctx, blocks)
}

// VerifyMessage checks a signed message against addr.
func (e *Explorer) VerifyMessage(ctx context.Context, addr, signature, message string) (bool, error) {
	if err := e.ValidateAddress(addr); err != nil {
		return false, err
	}
	return e.node.VerifyMessage(ctx, addr, signature, message)
}
