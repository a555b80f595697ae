package txdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/blockdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/schema"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
)

// InputInfo is a transaction input with the value and address of the output it spends.
type InputInfo struct {
	Previous model.Outpoint
	Coinbase bool
	Value    uint64
	Address  string
	// Unconfirmed marks inputs whose previous output is not indexed.
	Unconfirmed bool
}

// OutputInfo is a transaction output with its canonical spend.
type OutputInfo struct {
	Index     uint32
	Value     uint64
	Script    []byte
	Addresses []string
	Spend     *Spend
	// Spends counts every spend attempt, more than one for double spends.
	Spends int
}

// TxInfo is a transaction as served to readers.
type TxInfo struct {
	TxID          chainhash.Hash
	Version       int32
	LockTime      uint32
	Size          uint32
	VSize         uint32
	BlockHash     *chainhash.Hash
	Height        int64
	Confirmations int64
	Coinbase      bool
	Inputs        []InputInfo
	Outputs       []OutputInfo
	ValueIn       uint64
	ValueOut      uint64
	Fees          uint64
	// UnconfirmedInput is set when any input could not be filled in from the index.
	UnconfirmedInput bool
}

// TxInfo fetches txid from the node and fills in input values, confirmations and spends from the index.
func (db *TxDB) TxInfo(ctx context.Context, txid chainhash.Hash) (*TxInfo, error) {
	if db.source == nil {
		return nil, errors.New("txdb has no transaction source")
	}
	tx, err := db.source.Transaction(ctx, txid)
	if err != nil {
		return nil, fmt.Errorf("fetch tx %s: %w", txid, err)
	}

	info := &TxInfo{
		TxID:     tx.TxID,
		Version:  tx.Version,
		LockTime: tx.LockTime,
		Size:     tx.Size,
		VSize:    tx.VSize,
		Height:   schema.NotMain,
		Coinbase: tx.IsCoinbase(),
	}
	tipHeight := int64(-1)
	if tip, ok := db.chain.Tip(); ok {
		tipHeight = tip.Height
	}
	loc, err := db.chain.BlockForTx(txid)
	switch {
	case errors.Is(err, blockdb.ErrTxNotConfirmed):
	case err != nil:
		return nil, fmt.Errorf("locate tx %s: %w", txid, err)
	default:
		hash := loc.Hash
		info.BlockHash = &hash
		info.Height = loc.Height
		info.Confirmations = confirmations(tipHeight, loc.Height)
	}

	for i := range tx.Inputs {
		in := tx.Inputs[i]
		ii := InputInfo{Previous: in.Previous, Coinbase: in.Coinbase}
		if !in.Coinbase {
			prev, err := db.LookupOutput(ctx, in.Previous.TxID, in.Previous.Index)
			switch {
			case errors.Is(err, ErrOutputNotFound):
				ii.Unconfirmed = true
				info.UnconfirmedInput = true
			case err != nil:
				return nil, err
			default:
				ii.Value = prev.Value
				ii.Address = prev.Address
				info.ValueIn += prev.Value
			}
		}
		info.Inputs = append(info.Inputs, ii)
	}

	for i := range tx.Outputs {
		out := tx.Outputs[i]
		oi := OutputInfo{Index: out.Index, Value: out.Value, Script: out.Script, Addresses: out.Addresses}
		info.ValueOut += out.Value
		if out.Address() != "" {
			rec, err := db.LookupOutput(ctx, txid, out.Index)
			switch {
			case errors.Is(err, ErrOutputNotFound):
			case err != nil:
				return nil, err
			default:
				if err := db.fill(rec, tipHeight); err != nil {
					return nil, err
				}
				oi.Spend = rec.Spend
				oi.Spends = len(rec.Spends)
			}
		}
		info.Outputs = append(info.Outputs, oi)
	}

	if !info.Coinbase && !info.UnconfirmedInput && info.ValueIn >= info.ValueOut {
		info.Fees = info.ValueIn - info.ValueOut
	}
	return info, nil
}
