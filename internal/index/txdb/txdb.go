// Package txdb indexes transaction outputs, spend markers and per-address ledgers, and
// caches confirmation status once it is deep enough to stop re-deriving it.
package txdb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/blockdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/schema"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/storage/kv"
	"github.com/goodnatureofminers/blockinsight7000-indexer/pkg/workerpool"
	"go.uber.org/zap"
)

const (
	defaultSafeConfirmations = 6
	defaultFillConcurrency   = 8
)

// ErrOutputNotFound is returned for outputs that were never indexed.
var ErrOutputNotFound = errors.New("output not found")

// Config tunes the index.
type Config struct {
	// SafeConfirmations is the depth from which confirmation status is cached.
	SafeConfirmations int64
	// FillConcurrency bounds concurrent lookups in FillConfirmations.
	FillConcurrency int
}

// TxDB is the transaction and output index.
type TxDB struct {
	store    kv.Store
	chain    ChainIndex
	source   TxSource
	metrics  Metrics
	listener ActivityListener
	clock    clock.Clock
	logger   *zap.Logger

	safeConfirmations int64
	fillConcurrency   int
}

// New builds the index over store.
func New(store kv.Store, chain ChainIndex, source TxSource, metrics Metrics, cfg Config, logger *zap.Logger) (*TxDB, error) {
	if store == nil || chain == nil {
		return nil, errors.New("txdb requires a store and a chain index")
	}
	if metrics == nil {
		return nil, errors.New("txdb metrics is required")
	}
	if cfg.SafeConfirmations <= 0 {
		cfg.SafeConfirmations = defaultSafeConfirmations
	}
	if cfg.FillConcurrency <= 0 {
		cfg.FillConcurrency = defaultFillConcurrency
	}
	return &TxDB{
		store:             store,
		chain:             chain,
		source:            source,
		metrics:           metrics,
		clock:             clock.System{},
		logger:            logger.Named("txdb"),
		safeConfirmations: cfg.SafeConfirmations,
		fillConcurrency:   cfg.FillConcurrency,
	}, nil
}

// SetActivityListener registers the listener told about addresses touched by recorded transactions.
func (db *TxDB) SetActivityListener(l ActivityListener) {
	db.listener = l
}

// SafeConfirmations returns the caching depth.
func (db *TxDB) SafeConfirmations() int64 { return db.safeConfirmations }

// Resolver finds the outputs spent by transactions staged into one batch. Outputs staged
// earlier in the same batch are found before the committed store is consulted.
type Resolver struct {
	store   kv.Reader
	outputs map[model.Outpoint]schema.OutputValue
	spends  map[string]struct{}
}

// NewResolver returns a resolver for a new batch.
func (db *TxDB) NewResolver() *Resolver {
	return &Resolver{
		store:   db.store,
		outputs: make(map[model.Outpoint]schema.OutputValue),
		spends:  make(map[string]struct{}),
	}
}

func (r *Resolver) lookup(op model.Outpoint) (schema.OutputValue, bool, error) {
	if v, ok := r.outputs[op]; ok {
		return v, true, nil
	}
	raw, err := r.store.Get(schema.OutputKey(op.TxID, op.Index))
	if errors.Is(err, kv.ErrNotFound) {
		return schema.OutputValue{}, false, nil
	}
	if err != nil {
		return schema.OutputValue{}, false, fmt.Errorf("get output %s: %w", op, err)
	}
	v, err := schema.DecodeOutput(raw)
	if err != nil {
		return schema.OutputValue{}, false, err
	}
	return v, true, nil
}

func (r *Resolver) exists(k []byte, staged bool) (bool, error) {
	if staged {
		return true, nil
	}
	return r.store.Has(k)
}

// Recorded summarizes what indexing a transaction touched.
type Recorded struct {
	TxID chainhash.Hash
	// Addresses funded or spent by the transaction, without duplicates.
	Addresses []string
	// UnconfirmedInputs reference outputs that are not indexed yet.
	UnconfirmedInputs []model.Outpoint
}

// StageTransaction writes the output records, ledger entries and spend markers of tx into w.
// Outputs already indexed are left untouched and existing spend markers keep their first-seen time.
func (db *TxDB) StageTransaction(w kv.Writer, tx *model.Transaction, seen time.Time, res *Resolver) (Recorded, error) {
	rec := Recorded{TxID: tx.TxID}
	addrs := make(map[string]struct{})
	touch := func(a string) {
		if _, ok := addrs[a]; !ok && a != "" {
			addrs[a] = struct{}{}
			rec.Addresses = append(rec.Addresses, a)
		}
	}

	for i := range tx.Outputs {
		out := &tx.Outputs[i]
		addr := out.Address()
		if addr == "" {
			continue
		}
		op := model.Outpoint{TxID: tx.TxID, Index: out.Index}
		_, staged := res.outputs[op]
		okey := schema.OutputKey(tx.TxID, out.Index)
		known, err := res.exists(okey, staged)
		if err != nil {
			return Recorded{}, fmt.Errorf("check output %s: %w", op, err)
		}
		touch(addr)
		if known {
			continue
		}
		val := schema.OutputValue{Address: addr, Value: out.Value, Script: out.Script}
		if err := w.Put(okey, schema.EncodeOutput(val)); err != nil {
			return Recorded{}, err
		}
		lkey, err := schema.LedgerKey(addr, seen, tx.TxID, out.Index)
		if err != nil {
			return Recorded{}, fmt.Errorf("ledger key for %s: %w", op, err)
		}
		if err := w.Put(lkey, schema.EncodeLedger(schema.LedgerValue{Value: out.Value})); err != nil {
			return Recorded{}, err
		}
		res.outputs[op] = val
	}

	if tx.IsCoinbase() {
		return rec, nil
	}
	for i := range tx.Inputs {
		in := &tx.Inputs[i]
		input := uint32(i)
		skey := schema.SpendKey(in.Previous.TxID, in.Previous.Index, tx.TxID, input)
		_, staged := res.spends[string(skey)]
		known, err := res.exists(skey, staged)
		if err != nil {
			return Recorded{}, fmt.Errorf("check spend of %s: %w", in.Previous, err)
		}
		if !known {
			if err := w.Put(skey, schema.EncodeSpendTime(seen)); err != nil {
				return Recorded{}, err
			}
			res.spends[string(skey)] = struct{}{}
		}

		prev, ok, err := res.lookup(in.Previous)
		if err != nil {
			return Recorded{}, err
		}
		if !ok {
			rec.UnconfirmedInputs = append(rec.UnconfirmedInputs, in.Previous)
			continue
		}
		touch(prev.Address)
	}
	return rec, nil
}

// RecordTransaction indexes a single transaction in its own batch, typically one seen in the mempool.
func (db *TxDB) RecordTransaction(ctx context.Context, tx *model.Transaction, seen time.Time) (Recorded, error) {
	if err := ctx.Err(); err != nil {
		return Recorded{}, err
	}
	if seen.IsZero() {
		seen = db.clock.Now()
	}
	b := kv.NewBatch()
	rec, err := db.StageTransaction(b, tx, seen, db.NewResolver())
	if err != nil {
		return Recorded{}, fmt.Errorf("stage tx %s: %w", tx.TxID, err)
	}
	if err := db.store.Write(b); err != nil {
		return Recorded{}, fmt.Errorf("write tx %s: %w", tx.TxID, err)
	}
	if len(rec.UnconfirmedInputs) > 0 {
		db.logger.Debug("transaction has unindexed inputs",
			zap.Stringer("txid", tx.TxID), zap.Int("inputs", len(rec.UnconfirmedInputs)))
	}
	db.NotifyActivity(rec)
	return rec, nil
}

// NotifyActivity forwards the addresses of committed transactions to the activity listener.
func (db *TxDB) NotifyActivity(recs ...Recorded) {
	if db.listener == nil {
		return
	}
	var addrs []string
	for i := range recs {
		addrs = append(addrs, recs[i].Addresses...)
	}
	if len(addrs) > 0 {
		db.listener.AddressActivity(addrs)
	}
}

// QueryOptions narrow OutputsForAddress.
type QueryOptions struct {
	// SkipSpent drops outputs whose confirmed spend is already cached.
	SkipSpent bool
}

// OutputsForAddress returns the ledger of address, most recent first, one entry per outpoint.
// Entries not fully cached carry every spend marker of the output.
func (db *TxDB) OutputsForAddress(ctx context.Context, address string, opts QueryOptions) ([]*Output, error) {
	prefix, err := schema.LedgerPrefix(address)
	if err != nil {
		return nil, err
	}
	seen := make(map[model.Outpoint]struct{})
	var outs []*Output
	err = db.store.Iterate(kv.IterOptions{Prefix: prefix}, func(key, value []byte) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		_, ts, txid, index, err := schema.ParseLedgerKey(key)
		if err != nil {
			return false, err
		}
		op := model.Outpoint{TxID: txid, Index: index}
		if _, dup := seen[op]; dup {
			return true, nil
		}
		seen[op] = struct{}{}

		lv, err := schema.DecodeLedger(value)
		if err != nil {
			return false, fmt.Errorf("ledger entry %s: %w", op, err)
		}
		if opts.SkipSpent && lv.State == schema.SpentCached {
			return true, nil
		}
		o := &Output{
			TxID:    txid,
			Index:   index,
			Address: address,
			Value:   lv.Value,
			Time:    ts,
			Height:  schema.NotMain,
			State:   lv.State,
			key:     key,
			pending: lv.State,
		}
		if err := db.loadCached(o, lv); err != nil {
			return false, err
		}
		outs = append(outs, o)
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("outputs for address %s: %w", address, err)
	}
	return outs, nil
}

func (db *TxDB) loadCached(o *Output, lv schema.LedgerValue) error {
	switch lv.State {
	case schema.SpentCached:
		o.Height = lv.Height
		o.Spends = []Spend{{
			TxID:   lv.Spend.TxID,
			Input:  lv.Spend.Input,
			Time:   lv.Spend.Time,
			Height: lv.Spend.Height,
		}}
		o.Spend = &o.Spends[0]
		return nil
	case schema.ConfirmedCached:
		o.Height = lv.Height
		o.Script = lv.Script
	default:
		rec, err := db.outputRecord(o.TxID, o.Index)
		if err != nil && !errors.Is(err, ErrOutputNotFound) {
			return err
		}
		o.Script = rec.Script
	}
	spends, err := db.spendMarkers(o.TxID, o.Index)
	if err != nil {
		return err
	}
	o.Spends = spends
	o.chooseSpend()
	return nil
}

func (db *TxDB) outputRecord(txid chainhash.Hash, index uint32) (schema.OutputValue, error) {
	raw, err := db.store.Get(schema.OutputKey(txid, index))
	if errors.Is(err, kv.ErrNotFound) {
		return schema.OutputValue{}, fmt.Errorf("%w: %s:%d", ErrOutputNotFound, txid, index)
	}
	if err != nil {
		return schema.OutputValue{}, fmt.Errorf("get output %s:%d: %w", txid, index, err)
	}
	return schema.DecodeOutput(raw)
}

func (db *TxDB) spendMarkers(txid chainhash.Hash, index uint32) ([]Spend, error) {
	var spends []Spend
	err := db.store.Iterate(kv.IterOptions{Prefix: schema.SpendPrefix(txid, index)}, func(key, value []byte) (bool, error) {
		spender, input, err := schema.ParseSpendKey(key)
		if err != nil {
			return false, err
		}
		ts, err := schema.DecodeSpendTime(value)
		if err != nil {
			return false, err
		}
		spends = append(spends, Spend{TxID: spender, Input: input, Time: ts, Height: schema.NotMain})
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("spends of %s:%d: %w", txid, index, err)
	}
	sort.SliceStable(spends, func(i, j int) bool { return spends[i].Time.Before(spends[j].Time) })
	return spends, nil
}

// LookupOutput returns an indexed output with its spend markers. Confirmation fields stay unresolved.
func (db *TxDB) LookupOutput(ctx context.Context, txid chainhash.Hash, index uint32) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, err := db.outputRecord(txid, index)
	if err != nil {
		return nil, err
	}
	spends, err := db.spendMarkers(txid, index)
	if err != nil {
		return nil, err
	}
	o := &Output{
		TxID:    txid,
		Index:   index,
		Address: rec.Address,
		Value:   rec.Value,
		Script:  rec.Script,
		Height:  schema.NotMain,
		Spends:  spends,
	}
	o.chooseSpend()
	return o, nil
}

// FillConfirmations resolves funding and spend confirmations of outs against the chain index
// and marks outputs whose status is deep enough to cache. Fully cached outputs cost no lookups.
func (db *TxDB) FillConfirmations(ctx context.Context, outs []*Output) (err error) {
	started := time.Now()
	defer func() {
		db.metrics.ObserveFill(err, len(outs), started)
	}()

	tipHeight := int64(-1)
	if tip, ok := db.chain.Tip(); ok {
		tipHeight = tip.Height
	}
	return workerpool.Process(ctx, db.fillConcurrency, outs, func(_ context.Context, _ int, o *Output) error {
		return db.fill(o, tipHeight)
	})
}

func (db *TxDB) fill(o *Output, tipHeight int64) error {
	if o.State == schema.Uncached {
		h, err := db.heightOf(o.TxID)
		if err != nil {
			return err
		}
		o.Height = h
	}
	if o.State != schema.SpentCached {
		for i := range o.Spends {
			h, err := db.heightOf(o.Spends[i].TxID)
			if err != nil {
				return err
			}
			o.Spends[i].Height = h
		}
		o.chooseSpend()
	}

	o.Confirmations = confirmations(tipHeight, o.Height)
	for i := range o.Spends {
		o.Spends[i].Confirmations = confirmations(tipHeight, o.Spends[i].Height)
	}

	o.pending = o.State
	if o.Confirmations < db.safeConfirmations {
		return nil
	}
	if o.Spend != nil && o.Spend.Confirmations >= db.safeConfirmations {
		o.pending = schema.SpentCached
	} else if o.pending < schema.ConfirmedCached {
		o.pending = schema.ConfirmedCached
	}
	return nil
}

func (db *TxDB) heightOf(txid chainhash.Hash) (int64, error) {
	loc, err := db.chain.BlockForTx(txid)
	if errors.Is(err, blockdb.ErrTxNotConfirmed) {
		return schema.NotMain, nil
	}
	if err != nil {
		return 0, fmt.Errorf("locate tx %s: %w", txid, err)
	}
	return loc.Height, nil
}

// CacheConfirmations persists the cache states found by FillConfirmations in one batch.
func (db *TxDB) CacheConfirmations(ctx context.Context, outs []*Output) (err error) {
	started := time.Now()
	b := kv.NewBatch()
	var cached []*Output
	for _, o := range outs {
		if !o.Cacheable() || o.key == nil {
			continue
		}
		if err := b.Put(o.key, schema.EncodeLedger(o.ledgerValue(o.pending))); err != nil {
			return err
		}
		cached = append(cached, o)
	}
	if len(cached) == 0 {
		return nil
	}
	defer func() {
		db.metrics.ObserveCacheWrite(err, len(cached), started)
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := db.store.Write(b); err != nil {
		return fmt.Errorf("write confirmation cache: %w", err)
	}
	for _, o := range cached {
		o.State = o.pending
	}
	return nil
}
