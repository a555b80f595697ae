package model

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// UnknownHeight marks a block whose height was not reported by its source.
const UnknownHeight int64 = -1

// Block is a parsed block as handed to the index by the RPC path or the block-file reader.
type Block struct {
	Hash     chainhash.Hash
	PrevHash chainhash.Hash
	// Height as reported by the source. Block files carry no height, so it may be UnknownHeight.
	Height       int64
	Timestamp    time.Time
	Version      int32
	MerkleRoot   chainhash.Hash
	Bits         uint32
	Nonce        uint32
	Size         uint32
	Transactions []Transaction
}

// IsGenesis reports whether the block has no parent.
func (b *Block) IsGenesis() bool {
	return b.PrevHash == (chainhash.Hash{})
}

// TxIDs lists the block transaction ids in block order.
func (b *Block) TxIDs() []chainhash.Hash {
	ids := make([]chainhash.Hash, 0, len(b.Transactions))
	for i := range b.Transactions {
		ids = append(ids, b.Transactions[i].TxID)
	}
	return ids
}

// Coinbase returns the first transaction when it is a coinbase.
func (b *Block) Coinbase() (*Transaction, bool) {
	if len(b.Transactions) == 0 || !b.Transactions[0].IsCoinbase() {
		return nil, false
	}
	return &b.Transactions[0], true
}
