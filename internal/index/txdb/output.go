package txdb

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/schema"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
)

// Spend is one input claiming an output.
type Spend struct {
	TxID          chainhash.Hash
	Input         uint32
	Time          time.Time
	Height        int64
	Confirmations int64
}

// Confirmed reports whether the spending transaction is on the main chain.
func (s *Spend) Confirmed() bool { return s.Height >= 0 }

// Output is an indexed output with its spend and confirmation status.
type Output struct {
	TxID    chainhash.Hash
	Index   uint32
	Address string
	Value   uint64
	Script  []byte
	// Time is when the output was first indexed: its block time, or the time it was seen unconfirmed.
	Time          time.Time
	Height        int64
	Confirmations int64
	// Spends holds every spend marker, earliest first.
	Spends []Spend
	// Spend is the canonical spend, if any.
	Spend *Spend
	State schema.CacheState

	key     []byte
	pending schema.CacheState
}

// Outpoint identifies the output.
func (o *Output) Outpoint() model.Outpoint {
	return model.Outpoint{TxID: o.TxID, Index: o.Index}
}

// Confirmed reports whether the funding transaction is on the main chain.
func (o *Output) Confirmed() bool { return o.Height >= 0 }

// Spent reports whether any spend is canonical.
func (o *Output) Spent() bool { return o.Spend != nil }

// Cacheable reports whether FillConfirmations found a deeper cache state to persist.
func (o *Output) Cacheable() bool { return o.pending > o.State }

func (o *Output) clone() *Output {
	cp := *o
	cp.Spends = append([]Spend(nil), o.Spends...)
	cp.chooseSpend()
	return &cp
}

func (o *Output) ledgerValue(state schema.CacheState) schema.LedgerValue {
	v := schema.LedgerValue{Value: o.Value, State: state, Height: o.Height}
	switch state {
	case schema.ConfirmedCached:
		v.Script = o.Script
	case schema.SpentCached:
		v.Spend = schema.SpendRef{TxID: o.Spend.TxID, Input: o.Spend.Input, Time: o.Spend.Time, Height: o.Spend.Height}
	}
	return v
}

// chooseSpend picks the canonical spend: the marker whose transaction is confirmed,
// otherwise the first one observed.
func (o *Output) chooseSpend() {
	o.Spend = nil
	for i := range o.Spends {
		if o.Spends[i].Confirmed() {
			o.Spend = &o.Spends[i]
			return
		}
	}
	if len(o.Spends) > 0 {
		o.Spend = &o.Spends[0]
	}
}

func confirmations(tipHeight, height int64) int64 {
	if height < 0 || tipHeight < height {
		return 0
	}
	return tipHeight - height + 1
}
