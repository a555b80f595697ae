// Package indextest builds small chains and stores for index tests.
package indextest

import (
	"fmt"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/storage/kv"
)

// Epoch is the timestamp of blocks built without an explicit time.
var Epoch = time.Unix(1_600_000_000, 0).UTC()

// Hash derives a stable hash from a name.
func Hash(name string) chainhash.Hash {
	return chainhash.DoubleHashH([]byte(name))
}

// NewStore returns an in-memory store closed when the test ends.
func NewStore(t testing.TB) kv.Store {
	t.Helper()
	store, err := kv.NewMemLevelDB()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// Out is a shorthand for an output paying value to addr.
func Out(addr string, value uint64) model.Output {
	var addrs []string
	if addr != "" {
		addrs = []string{addr}
	}
	return model.Output{Value: value, Script: []byte(addr), Addresses: addrs}
}

// Coinbase builds a coinbase transaction named name.
func Coinbase(name string, outs ...model.Output) model.Transaction {
	return Tx(name, nil, outs...)
}

// Tx builds a transaction named name spending prevouts. No prevouts makes it a coinbase.
func Tx(name string, prevouts []model.Outpoint, outs ...model.Output) model.Transaction {
	tx := model.Transaction{TxID: Hash("tx/" + name), Version: 2}
	if len(prevouts) == 0 {
		tx.Inputs = []model.Input{{Coinbase: true, ScriptSig: []byte("/" + name + "/"), Sequence: 0xffffffff}}
	}
	for _, p := range prevouts {
		tx.Inputs = append(tx.Inputs, model.Input{Previous: p, Sequence: 0xffffffff})
	}
	for i := range outs {
		o := outs[i]
		o.Index = uint32(i)
		tx.Outputs = append(tx.Outputs, o)
	}
	return tx
}

// Point references output index of tx.
func Point(tx model.Transaction, index uint32) model.Outpoint {
	return model.Outpoint{TxID: tx.TxID, Index: index}
}

// Block builds a block named name on top of prev (nil for genesis) at ts.
// A zero ts places the block ten minutes after its parent.
func Block(name string, prev *model.Block, ts time.Time, txs ...model.Transaction) *model.Block {
	b := &model.Block{Hash: Hash("block/" + name), Height: model.UnknownHeight, Timestamp: ts}
	if prev != nil {
		b.PrevHash = prev.Hash
		if ts.IsZero() {
			b.Timestamp = prev.Timestamp.Add(10 * time.Minute)
		}
	} else if ts.IsZero() {
		b.Timestamp = Epoch
	}
	if len(txs) == 0 {
		txs = []model.Transaction{Coinbase("cb/" + name)}
	}
	b.Transactions = txs
	return b
}

// Chain builds a linear chain of n blocks named prefix0..prefixN-1 on top of prev.
func Chain(prefix string, prev *model.Block, n int) []*model.Block {
	out := make([]*model.Block, 0, n)
	for i := 0; i < n; i++ {
		b := Block(fmt.Sprintf("%s%d", prefix, i), prev, time.Time{})
		out = append(out, b)
		prev = b
	}
	return out
}
