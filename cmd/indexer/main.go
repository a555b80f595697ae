package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/dustin/go-humanize"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/explorer"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/address"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/blockdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/follower"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/historic"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/reorg"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/txdb"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/storage/kv"
	"github.com/goodnatureofminers/blockinsight7000-indexer/pkg/batcher"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type config struct {
	Coin    model.Coin    `long:"coin" env:"INDEXER_COIN" description:"coin name" default:"BTC"`
	Network model.Network `long:"network" env:"INDEXER_NETWORK" description:"network name (mainnet, testnet, regtest, signet)" required:"true"`

	DBPath   string `long:"db-path" env:"INDEXER_DB_PATH" description:"index database directory" default:"./data/index"`
	DBEngine string `long:"db-engine" env:"INDEXER_DB_ENGINE" description:"key-value engine" choice:"leveldb" choice:"pebble" default:"leveldb"`
	DBCache  string `long:"db-cache" env:"INDEXER_DB_CACHE" description:"database block cache size" default:"256MiB"`

	RPCURL      string `long:"rpc-url" env:"INDEXER_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser     string `long:"rpc-user" env:"INDEXER_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword string `long:"rpc-password" env:"INDEXER_RPC_PASSWORD" description:"Bitcoin RPC password"`
	TxCacheSize uint32 `long:"tx-cache-size" env:"INDEXER_TX_CACHE_SIZE" description:"node transactions kept in memory" default:"10000"`

	BlocksDir     string  `long:"blocks-dir" env:"INDEXER_BLOCKS_DIR" description:"node blocks directory with blk*.dat files for bulk sync"`
	FileThreshold float64 `long:"file-threshold" env:"INDEXER_FILE_THRESHOLD" description:"read block files below this fraction of the node height" default:"0.96"`
	StartHash     string  `long:"start-hash" env:"INDEXER_START_HASH" description:"rewind the index to this block before syncing"`
	StopAt        string  `long:"stop-at" env:"INDEXER_STOP_AT" description:"stop syncing after this block"`
	MaxReorgDepth int64   `long:"max-reorg-depth" env:"INDEXER_MAX_REORG_DEPTH" description:"deepest fork switch handled without a resync" default:"1000"`

	SafeConfirmations  int64         `long:"safe-confirmations" env:"INDEXER_SAFE_CONFIRMATIONS" description:"depth from which confirmation status is cached" default:"6"`
	FillConcurrency    int           `long:"fill-concurrency" env:"INDEXER_FILL_CONCURRENCY" description:"concurrent confirmation lookups" default:"8"`
	CacheFlushInterval time.Duration `long:"cache-flush-interval" env:"INDEXER_CACHE_FLUSH_INTERVAL" description:"confirmation cache flush interval" default:"1s"`
	CacheFlushRPS      int           `long:"cache-flush-rps" env:"INDEXER_CACHE_FLUSH_RPS" description:"confirmation cache flushes per second" default:"20"`

	DeadInactivity   time.Duration `long:"dead-inactivity" env:"INDEXER_DEAD_INACTIVITY" description:"quiet period before an address aggregate is memoized" default:"960h"`
	DeadCacheMax     int           `long:"dead-cache-max" env:"INDEXER_DEAD_CACHE_MAX" description:"memoized address aggregates" default:"10000"`
	DeadRequireEmpty bool          `long:"dead-require-empty" env:"INDEXER_DEAD_REQUIRE_EMPTY" description:"only memoize addresses with a zero balance"`

	ZMQAddr      string        `long:"zmq-addr" env:"INDEXER_ZMQ_ADDR" description:"node zmq hashblock endpoint"`
	PollInterval time.Duration `long:"poll-interval" env:"INDEXER_POLL_INTERVAL" description:"follower best-block poll interval" default:"5s"`
	Mempool      bool          `long:"mempool" env:"INDEXER_MEMPOOL" description:"index mempool transactions"`

	MetricsAddr string `long:"metrics-addr" env:"INDEXER_METRICS_ADDR" description:"address for metrics server" default:":2112"`
	GRPCAddr    string `long:"grpc-addr" env:"INDEXER_GRPC_ADDR" description:"gRPC status server address" default:":8000"`
	RestAddr    string `long:"rest-addr" env:"INDEXER_REST_ADDR" description:"REST gateway address" default:":8001"`

	LogProduction bool `long:"log-production" env:"INDEXER_LOG_PRODUCTION" description:"JSON production logging"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogProduction)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	logger = logger.With(
		zap.String("coin", string(cfg.Coin)),
		zap.String("network", string(cfg.Network)),
	)

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("indexer failed", zap.Error(err))
	}
}

func newLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	conv, err := bitcoin.NewConverter(cfg.Network)
	if err != nil {
		return err
	}
	params := conv.Params()
	startHash, err := parseHash(cfg.StartHash)
	if err != nil {
		return fmt.Errorf("start hash: %w", err)
	}
	stopAt, err := parseHash(cfg.StopAt)
	if err != nil {
		return fmt.Errorf("stop-at hash: %w", err)
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("close store", zap.Error(err))
		}
	}()

	rpcClient, endpoint, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("init rpc client: %w", err)
	}
	defer func() {
		rpcClient.Shutdown()
		rpcClient.WaitForShutdown()
	}()
	rpc := bitcoin.NewRPCClient(rpcClient, metrics.NewRPCClient(cfg.Coin, cfg.Network))
	node := bitcoin.NewNode(rpc, conv, endpoint, cfg.TxCacheSize)

	blocks, err := blockdb.New(store, logger)
	if err != nil {
		return fmt.Errorf("open chain index: %w", err)
	}
	txs, err := txdb.New(store, blocks, node, metrics.NewTxDB(cfg.Coin, cfg.Network), txdb.Config{
		SafeConfirmations: cfg.SafeConfirmations,
		FillConcurrency:   cfg.FillConcurrency,
	}, logger)
	if err != nil {
		return fmt.Errorf("open transaction index: %w", err)
	}

	addrMetrics := metrics.NewAddress(cfg.Coin, cfg.Network)
	deadCache := address.NewDeadCache(cfg.DeadCacheMax, addrMetrics)
	txs.SetActivityListener(deadCache)

	cacheWriter := txdb.NewCacheBatcher(txs, batcher.Options{
		Interval: cfg.CacheFlushInterval,
		RPS:      cfg.CacheFlushRPS,
	}, logger)
	cacheWriter.Start(ctx)
	defer cacheWriter.Stop()

	aggregator, err := address.New(txs, cacheWriter, deadCache, addrMetrics, address.Config{
		Inactivity:    cfg.DeadInactivity,
		RequireEmpty:  cfg.DeadRequireEmpty,
		TxInfoWorkers: cfg.FillConcurrency,
	}, logger)
	if err != nil {
		return err
	}

	engine, err := reorg.New(blocks, txs, metrics.NewReorgEngine(cfg.Coin, cfg.Network), reorg.Config{
		MaxReorgDepth: cfg.MaxReorgDepth,
	}, logger)
	if err != nil {
		return err
	}

	var files historic.BlockFiles
	if cfg.BlocksDir != "" {
		files = blockFiles{files: bitcoin.NewBlockFiles(cfg.BlocksDir, conv, logger)}
	}
	orchestrator, err := historic.New(engine, blocks, node, files, metrics.NewHistoricSync(cfg.Coin, cfg.Network), historic.Config{
		Genesis:       *params.GenesisHash,
		StartHash:     startHash,
		StopAt:        stopAt,
		FileThreshold: cfg.FileThreshold,
	}, logger)
	if err != nil {
		return err
	}

	exp, err := explorer.New(aggregator, txs, blocks, node, orchestrator, params, explorer.DefaultPools, logger)
	if err != nil {
		return err
	}

	blockSignal, err := startBlockSignal(ctx, cfg.ZMQAddr, logger)
	if err != nil {
		return err
	}
	fol, err := follower.New(engine, blocks, node, txs, metrics.NewFollower(cfg.Coin, cfg.Network), follower.Config{
		PollInterval: cfg.PollInterval,
		Mempool:      cfg.Mempool,
	}, logger, blockSignal)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return serveMetrics(ctx, cfg.MetricsAddr, logger) })
	g.Go(func() error { return serveStatus(ctx, cfg.GRPCAddr, cfg.RestAddr, exp, logger) })
	g.Go(func() error { return syncLoop(ctx, orchestrator, fol, stopAt != nil, logger) })
	return g.Wait()
}

// syncLoop runs bulk sync, then follows the node tip. A follower that loses the chain hands
// control back to bulk sync.
func syncLoop(ctx context.Context, orchestrator *historic.Orchestrator, fol *follower.Follower, stopAt bool, logger *zap.Logger) error {
	for {
		if err := orchestrator.Run(ctx); err != nil {
			return fmt.Errorf("historic sync: %w", err)
		}
		if stopAt {
			logger.Info("stop block reached, not following the node tip")
			<-ctx.Done()
			return ctx.Err()
		}
		err := fol.Run(ctx)
		if errors.Is(err, reorg.ErrNeedSync) {
			logger.Warn("follower lost the chain, restarting historic sync", zap.Error(err))
			continue
		}
		return err
	}
}

func openStore(cfg config, logger *zap.Logger) (kv.Store, error) {
	cacheBytes, err := humanize.ParseBytes(cfg.DBCache)
	if err != nil {
		return nil, fmt.Errorf("parse db cache size %q: %w", cfg.DBCache, err)
	}
	var store kv.Store
	switch cfg.DBEngine {
	case "pebble":
		store, err = kv.OpenPebble(cfg.DBPath, kv.PebbleOptions{CacheBytes: cacheBytes}, logger)
	default:
		store, err = kv.OpenLevelDB(cfg.DBPath, cacheBytes, logger)
	}
	if err != nil {
		return nil, err
	}
	return kv.NewObservedStore(store, metrics.NewKVStore(cfg.DBEngine)), nil
}

func parseHash(s string) (*chainhash.Hash, error) {
	if s == "" {
		return nil, nil
	}
	return chainhash.NewHashFromStr(s)
}

// newRPCClient connects to the node and returns the user@host endpoint used in errors.
func newRPCClient(rawURL, user, password string) (*rpcclient.Client, string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, "", fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, "", errors.New("rpc url missing host")
	}

	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
	if err != nil {
		return nil, "", err
	}
	return client, user + "@" + parsed.Host, nil
}
