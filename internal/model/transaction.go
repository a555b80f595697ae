package model

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Outpoint references a single transaction output.
type Outpoint struct {
	TxID  chainhash.Hash
	Index uint32
}

func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID, o.Index)
}

// Transaction is a parsed transaction.
type Transaction struct {
	TxID     chainhash.Hash
	Version  int32
	LockTime uint32
	Size     uint32
	VSize    uint32
	Inputs   []Input
	Outputs  []Output
}

// IsCoinbase reports whether the transaction mints new coins.
func (t *Transaction) IsCoinbase() bool {
	return len(t.Inputs) == 1 && t.Inputs[0].Coinbase
}

// Input spends a previous output, or carries the coinbase script.
type Input struct {
	Previous  Outpoint
	Sequence  uint32
	Coinbase  bool
	ScriptSig []byte
}

// Output is a transaction output with its decoded addresses.
type Output struct {
	Index     uint32
	Value     uint64
	Script    []byte
	Addresses []string
}

// Address returns the address the output is indexed under. Outputs without an address and bare
// multisig outputs, which no single key controls, return "".
func (o *Output) Address() string {
	if len(o.Addresses) != 1 {
		return ""
	}
	return o.Addresses[0]
}
