// Package bitcoin talks to a Bitcoin node and turns its blocks into index models.
package bitcoin

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-indexer/pkg/safe"
)

// BtcToSatoshis converts BTC amount to satoshis with overflow checks.
func BtcToSatoshis(value float64) (uint64, error) {
	amt, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, err
	}
	if amt < 0 {
		return 0, fmt.Errorf("negative amount: %d", amt)
	}
	return safe.Uint64(int64(amt))
}

// ParseBits parses a bits string into a 32-bit value.
func ParseBits(value string) (uint32, error) {
	parsed, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(parsed), nil
}

// Converter maps node RPC results and wire messages into model blocks and transactions.
type Converter struct {
	decoder *scriptDecoder
	network model.Network
}

// NewConverter builds a converter decoding addresses for network.
func NewConverter(network model.Network) (*Converter, error) {
	params, err := ChainParams(network)
	if err != nil {
		return nil, err
	}
	return &Converter{decoder: &scriptDecoder{params: params}, network: network}, nil
}

// Params returns the chain parameters of the converter network.
func (c *Converter) Params() *chaincfg.Params { return c.decoder.params }

// Block maps a verbose RPC block.
func (c *Converter) Block(src *btcjson.GetBlockVerboseTxResult) (*model.Block, error) {
	hash, err := chainhash.NewHashFromStr(src.Hash)
	if err != nil {
		return nil, fmt.Errorf("block %d hash: %w", src.Height, err)
	}
	var prev chainhash.Hash
	if src.PreviousHash != "" {
		p, err := chainhash.NewHashFromStr(src.PreviousHash)
		if err != nil {
			return nil, fmt.Errorf("block %s previous hash: %w", hash, err)
		}
		prev = *p
	}
	merkle, err := chainhash.NewHashFromStr(src.MerkleRoot)
	if err != nil {
		return nil, fmt.Errorf("block %s merkle root: %w", hash, err)
	}
	bits, err := ParseBits(src.Bits)
	if err != nil {
		return nil, fmt.Errorf("block %s bits parse: %w", hash, err)
	}
	size, err := safe.Uint32(src.Size)
	if err != nil {
		return nil, fmt.Errorf("block %s size overflow: %w", hash, err)
	}
	height, err := safe.Height(src.Height)
	if err != nil {
		return nil, fmt.Errorf("block %s height: %w", hash, err)
	}

	block := &model.Block{
		Hash:         *hash,
		PrevHash:     prev,
		Height:       height,
		Timestamp:    time.Unix(src.Time, 0).UTC(),
		Version:      src.Version,
		MerkleRoot:   *merkle,
		Bits:         bits,
		Nonce:        src.Nonce,
		Size:         size,
		Transactions: make([]model.Transaction, 0, len(src.Tx)),
	}
	for i := range src.Tx {
		tx, err := c.Transaction(&src.Tx[i])
		if err != nil {
			return nil, fmt.Errorf("block %s: %w", hash, err)
		}
		block.Transactions = append(block.Transactions, tx)
	}
	return block, nil
}

// Transaction maps a verbose RPC transaction.
func (c *Converter) Transaction(src *btcjson.TxRawResult) (model.Transaction, error) {
	txid, err := chainhash.NewHashFromStr(src.Txid)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("tx id %q: %w", src.Txid, err)
	}
	size, err := safe.Uint32(src.Size)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("tx %s size overflow: %w", txid, err)
	}
	vsize, err := safe.Uint32(src.Vsize)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("tx %s vsize overflow: %w", txid, err)
	}

	tx := model.Transaction{
		TxID:     *txid,
		Version:  int32(src.Version),
		LockTime: src.LockTime,
		Size:     size,
		VSize:    vsize,
		Inputs:   make([]model.Input, 0, len(src.Vin)),
		Outputs:  make([]model.Output, 0, len(src.Vout)),
	}
	for idx, vin := range src.Vin {
		in := model.Input{Sequence: vin.Sequence}
		if vin.Coinbase != "" {
			in.Coinbase = true
			if in.ScriptSig, err = hex.DecodeString(vin.Coinbase); err != nil {
				return model.Transaction{}, fmt.Errorf("tx %s coinbase script: %w", txid, err)
			}
			tx.Inputs = append(tx.Inputs, in)
			continue
		}
		prev, err := chainhash.NewHashFromStr(vin.Txid)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("tx %s input %d previous txid: %w", txid, idx, err)
		}
		in.Previous = model.Outpoint{TxID: *prev, Index: vin.Vout}
		if vin.ScriptSig != nil && vin.ScriptSig.Hex != "" {
			if in.ScriptSig, err = hex.DecodeString(vin.ScriptSig.Hex); err != nil {
				return model.Transaction{}, fmt.Errorf("tx %s input %d script: %w", txid, idx, err)
			}
		}
		tx.Inputs = append(tx.Inputs, in)
	}
	for idx, vout := range src.Vout {
		if vout.Value < 0 {
			return model.Transaction{}, fmt.Errorf("tx %s output %d negative value: %f", txid, idx, vout.Value)
		}
		value, err := BtcToSatoshis(vout.Value)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("tx %s output %d safe value: %w", txid, idx, err)
		}
		script, err := hex.DecodeString(vout.ScriptPubKey.Hex)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("tx %s output %d script: %w", txid, idx, err)
		}
		addresses, err := c.decoder.decodeAddresses(vout)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("decode addresses for tx %s output %d: %w", txid, idx, err)
		}
		tx.Outputs = append(tx.Outputs, model.Output{
			Index:     vout.N,
			Value:     value,
			Script:    script,
			Addresses: addresses,
		})
	}
	return tx, nil
}

// WireBlock maps a deserialized block, as read from block files. The height is unknown.
func (c *Converter) WireBlock(msg *wire.MsgBlock) (*model.Block, error) {
	size, err := safe.Uint32(msg.SerializeSize())
	if err != nil {
		return nil, fmt.Errorf("block size overflow: %w", err)
	}
	block := &model.Block{
		Hash:         msg.BlockHash(),
		PrevHash:     msg.Header.PrevBlock,
		Height:       model.UnknownHeight,
		Timestamp:    msg.Header.Timestamp.UTC(),
		Version:      msg.Header.Version,
		MerkleRoot:   msg.Header.MerkleRoot,
		Bits:         msg.Header.Bits,
		Nonce:        msg.Header.Nonce,
		Size:         size,
		Transactions: make([]model.Transaction, 0, len(msg.Transactions)),
	}
	for _, mtx := range msg.Transactions {
		tx, err := c.WireTransaction(mtx)
		if err != nil {
			return nil, fmt.Errorf("block %s: %w", block.Hash, err)
		}
		block.Transactions = append(block.Transactions, tx)
	}
	return block, nil
}

// WireTransaction maps a deserialized transaction.
func (c *Converter) WireTransaction(mtx *wire.MsgTx) (model.Transaction, error) {
	txid := mtx.TxHash()
	size, err := safe.Uint32(mtx.SerializeSize())
	if err != nil {
		return model.Transaction{}, fmt.Errorf("tx %s size overflow: %w", txid, err)
	}
	weight := mtx.SerializeSizeStripped()*3 + mtx.SerializeSize()
	vsize, err := safe.Uint32((weight + 3) / 4)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("tx %s vsize overflow: %w", txid, err)
	}

	tx := model.Transaction{
		TxID:     txid,
		Version:  mtx.Version,
		LockTime: mtx.LockTime,
		Size:     size,
		VSize:    vsize,
		Inputs:   make([]model.Input, 0, len(mtx.TxIn)),
		Outputs:  make([]model.Output, 0, len(mtx.TxOut)),
	}
	coinbase := isCoinbase(mtx)
	for _, in := range mtx.TxIn {
		input := model.Input{Sequence: in.Sequence, ScriptSig: in.SignatureScript, Coinbase: coinbase}
		if !coinbase {
			input.Previous = model.Outpoint{TxID: in.PreviousOutPoint.Hash, Index: in.PreviousOutPoint.Index}
		}
		tx.Inputs = append(tx.Inputs, input)
	}
	for idx, out := range mtx.TxOut {
		value, err := safe.Uint64(out.Value)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("tx %s output %d value: %w", txid, idx, err)
		}
		index, err := safe.Uint32(idx)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("tx %s output index overflow: %w", txid, err)
		}
		tx.Outputs = append(tx.Outputs, model.Output{
			Index:     index,
			Value:     value,
			Script:    out.PkScript,
			Addresses: c.decoder.scriptAddresses(out.PkScript),
		})
	}
	return tx, nil
}

func isCoinbase(mtx *wire.MsgTx) bool {
	if len(mtx.TxIn) != 1 {
		return false
	}
	prev := mtx.TxIn[0].PreviousOutPoint
	return prev.Index == wire.MaxPrevOutIndex && prev.Hash == (chainhash.Hash{})
}
