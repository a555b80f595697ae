// Package address aggregates the indexed outputs of one address into balances and activity.
package address

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/txdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/pkg/workerpool"
	"go.uber.org/zap"
)

const (
	defaultInactivity    = 40 * 24 * time.Hour
	defaultTxInfoWorkers = 8
)

// Options selects what Update returns.
type Options struct {
	// OnlyUnspent limits Outputs to unspent ones.
	OnlyUnspent bool
	// IncludeTxInfo loads full details of the listed transactions. Such calls bypass the cache.
	IncludeTxInfo bool
	// TxLimit caps Transactions: zero lists none, negative lists all.
	TxLimit     int
	IgnoreCache bool
}

// Address is the aggregate view of one address.
type Address struct {
	Address       string
	Balance       uint64
	TotalReceived uint64
	TotalSent     uint64
	// UnconfirmedBalance sums unconfirmed funding minus confirmed outputs spent by unconfirmed
	// transactions. An unconfirmed output already spent by another unconfirmed transaction adds
	// nothing.
	UnconfirmedBalance int64
	TxAppearances      int
	// UnconfirmedTxAppearances counts distinct unconfirmed funding and spending transactions.
	UnconfirmedTxAppearances int
	// Transactions lists funding and spending transactions, most recent first.
	Transactions []chainhash.Hash
	// Outputs holds the address outputs, most recent first. Shared with the cache; do not modify.
	Outputs      []*txdb.Output
	LastActivity time.Time
	TxInfos      []*txdb.TxInfo
	// Cached is set when the aggregate came from the dead-address cache.
	Cached bool
}

// Config tunes the aggregator.
type Config struct {
	// Inactivity is how long an address must be quiet before its aggregate is memoized.
	Inactivity time.Duration
	// RequireEmpty additionally requires a zero balance before memoizing.
	RequireEmpty  bool
	TxInfoWorkers int
}

// Aggregator computes address aggregates from the transaction index.
type Aggregator struct {
	outputs OutputIndex
	confirm ConfirmationCache
	cache   Cache
	metrics Metrics
	cfg     Config
	clock   clock.Clock
	logger  *zap.Logger
}

// New builds an aggregator. cache may be nil to disable memoization.
func New(outputs OutputIndex, confirm ConfirmationCache, cache Cache, metrics Metrics, cfg Config, logger *zap.Logger) (*Aggregator, error) {
	if outputs == nil || confirm == nil {
		return nil, errors.New("address aggregator requires an output index and confirmation cache")
	}
	if metrics == nil {
		return nil, errors.New("address aggregator metrics is required")
	}
	if cfg.Inactivity <= 0 {
		cfg.Inactivity = defaultInactivity
	}
	if cfg.TxInfoWorkers <= 0 {
		cfg.TxInfoWorkers = defaultTxInfoWorkers
	}
	return &Aggregator{
		outputs: outputs,
		confirm: confirm,
		cache:   cache,
		metrics: metrics,
		cfg:     cfg,
		clock:   clock.System{},
		logger:  logger.Named("address"),
	}, nil
}

// Update aggregates address.
func (a *Aggregator) Update(ctx context.Context, address string, opts Options) (res *Address, err error) {
	started := time.Now()
	cached := false
	defer func() {
		a.metrics.ObserveUpdate(err, cached, started)
	}()

	if a.cache != nil && !opts.IgnoreCache && !opts.IncludeTxInfo {
		if full, ok := a.cache.Get(address); ok {
			cached = true
			res := full.view(opts)
			res.Cached = true
			return res, nil
		}
	}

	full, err := a.compute(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("aggregate address %s: %w", address, err)
	}
	if a.cache != nil && a.dead(full) {
		a.cache.Put(address, full)
		a.logger.Debug("memoized inactive address",
			zap.String("address", address),
			zap.Time("last_activity", full.LastActivity))
	}

	res = full.view(opts)
	if opts.IncludeTxInfo {
		infos, err := workerpool.Map(ctx, a.cfg.TxInfoWorkers, res.Transactions, func(ctx context.Context, txid chainhash.Hash) (*txdb.TxInfo, error) {
			return a.outputs.TxInfo(ctx, txid)
		})
		if err != nil {
			return nil, fmt.Errorf("load transactions of %s: %w", address, err)
		}
		res.TxInfos = infos
	}
	return res, nil
}

type activity struct {
	txid chainhash.Hash
	at   time.Time
}

func (a *Aggregator) compute(ctx context.Context, address string) (*Address, error) {
	outs, err := a.outputs.OutputsForAddress(ctx, address, txdb.QueryOptions{})
	if err != nil {
		return nil, err
	}
	if err := a.outputs.FillConfirmations(ctx, outs); err != nil {
		return nil, err
	}
	if err := a.confirm.CacheConfirmations(ctx, outs); err != nil {
		a.logger.Warn("persist confirmation cache", zap.String("address", address), zap.Error(err))
	}

	res := &Address{Address: address, Outputs: outs}
	seen := make(map[chainhash.Hash]struct{})
	var txs []activity
	listed := make(map[chainhash.Hash]struct{})
	list := func(txid chainhash.Hash, at time.Time) {
		if _, ok := listed[txid]; ok {
			return
		}
		listed[txid] = struct{}{}
		txs = append(txs, activity{txid: txid, at: at})
	}
	appear := func(txid chainhash.Hash) {
		if _, ok := seen[txid]; ok {
			return
		}
		seen[txid] = struct{}{}
		res.TxAppearances++
	}
	unconfirmedFunding := make(map[chainhash.Hash]struct{})
	unconfirmedSpending := make(map[chainhash.Hash]struct{})
	appearUnconfirmed := func(set map[chainhash.Hash]struct{}, txid chainhash.Hash) {
		if _, ok := set[txid]; ok {
			return
		}
		set[txid] = struct{}{}
		res.UnconfirmedTxAppearances++
	}

	for _, o := range outs {
		if o.Time.After(res.LastActivity) {
			res.LastActivity = o.Time
		}
		list(o.TxID, o.Time)
		if o.Spend != nil {
			if o.Spend.Time.After(res.LastActivity) {
				res.LastActivity = o.Spend.Time
			}
			list(o.Spend.TxID, o.Spend.Time)
		}

		switch {
		case !o.Confirmed():
			appearUnconfirmed(unconfirmedFunding, o.TxID)
			if o.Spend == nil {
				res.UnconfirmedBalance += int64(o.Value)
			}
		case o.Spend == nil:
			res.TotalReceived += o.Value
			res.Balance += o.Value
			appear(o.TxID)
		case !o.Spend.Confirmed():
			res.TotalReceived += o.Value
			res.Balance += o.Value
			res.UnconfirmedBalance -= int64(o.Value)
			appearUnconfirmed(unconfirmedSpending, o.Spend.TxID)
			appear(o.TxID)
		default:
			res.TotalReceived += o.Value
			res.TotalSent += o.Value
			appear(o.TxID)
			appear(o.Spend.TxID)
		}
	}

	sort.SliceStable(txs, func(i, j int) bool { return txs[i].at.After(txs[j].at) })
	res.Transactions = make([]chainhash.Hash, 0, len(txs))
	for _, t := range txs {
		res.Transactions = append(res.Transactions, t.txid)
	}
	return res, nil
}

// dead reports whether the aggregate is settled and old enough to memoize.
func (a *Aggregator) dead(res *Address) bool {
	if len(res.Outputs) == 0 {
		return false
	}
	if res.UnconfirmedTxAppearances > 0 || res.UnconfirmedBalance != 0 {
		return false
	}
	if a.cfg.RequireEmpty && res.Balance != 0 {
		return false
	}
	return a.clock.Now().Sub(res.LastActivity) > a.cfg.Inactivity
}

// view applies per-call options to a full aggregate without modifying it.
func (r *Address) view(opts Options) *Address {
	cp := *r
	cp.TxInfos = nil
	switch {
	case opts.TxLimit == 0:
		cp.Transactions = nil
	case opts.TxLimit > 0 && opts.TxLimit < len(r.Transactions):
		cp.Transactions = append([]chainhash.Hash(nil), r.Transactions[:opts.TxLimit]...)
	default:
		cp.Transactions = append([]chainhash.Hash(nil), r.Transactions...)
	}
	if opts.OnlyUnspent {
		cp.Outputs = nil
		for _, o := range r.Outputs {
			if o.Spend == nil {
				cp.Outputs = append(cp.Outputs, o)
			}
		}
	} else {
		cp.Outputs = append([]*txdb.Output(nil), r.Outputs...)
	}
	return &cp
}
