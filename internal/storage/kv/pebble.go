package kv

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

const defaultPebbleCache = 256 << 20

// Pebble is a Store backed by cockroachdb/pebble.
type Pebble struct {
	db        *pebble.DB
	writeOpts *pebble.WriteOptions
}

// PebbleOptions configure OpenPebble.
type PebbleOptions struct {
	CacheBytes uint64
	// Sync fsyncs every write. Bulk imports usually leave it off.
	Sync bool
	// InMemory keeps the database in a memory filesystem.
	InMemory bool
}

// OpenPebble opens (creating if needed) a pebble database at path.
func OpenPebble(path string, o PebbleOptions, logger *zap.Logger) (*Pebble, error) {
	cacheBytes := o.CacheBytes
	if cacheBytes == 0 {
		cacheBytes = defaultPebbleCache
	}
	cache := pebble.NewCache(int64(cacheBytes))
	defer cache.Unref()

	opts := &pebble.Options{
		Cache:        cache,
		MaxOpenFiles: 4096,
		MemTableSize: 64 << 20,
		Levels:       make([]pebble.LevelOptions, 7),
	}
	for i := range opts.Levels {
		l := &opts.Levels[i]
		l.BlockSize = 32 << 10
		l.FilterPolicy = bloom.FilterPolicy(10)
		l.FilterType = pebble.TableFilter
		l.EnsureDefaults()
	}
	if o.InMemory {
		opts.FS = vfs.NewMem()
	}
	opts.EnsureDefaults()

	logger.Info("opening pebble",
		zap.String("path", path),
		zap.Bool("in_memory", o.InMemory),
		zap.String("cache", humanize.IBytes(cacheBytes)))

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open pebble %s: %w", path, err)
	}
	wo := pebble.NoSync
	if o.Sync {
		wo = pebble.Sync
	}
	return &Pebble{db: db, writeOpts: wo}, nil
}

func (p *Pebble) Get(key []byte) ([]byte, error) {
	v, closer, err := p.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return clone(v), nil
}

func (p *Pebble) Has(key []byte) (bool, error) {
	_, err := p.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (p *Pebble) Put(key, value []byte) error {
	return p.db.Set(key, value, p.writeOpts)
}

func (p *Pebble) Delete(key []byte) error {
	return p.db.Delete(key, p.writeOpts)
}

// Write applies b atomically.
func (p *Pebble) Write(b *Batch) error {
	pb := p.db.NewBatch()
	defer pb.Close()
	for _, o := range b.ops {
		var err error
		switch o.kind {
		case opPut:
			err = pb.Set(o.key, o.value, nil)
		case opDelete:
			err = pb.Delete(o.key, nil)
		}
		if err != nil {
			return err
		}
	}
	return pb.Commit(p.writeOpts)
}

func (p *Pebble) Iterate(opts IterOptions, fn IterFunc) error {
	lower, upper := opts.bounds()
	it, err := p.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return fmt.Errorf("create iterator: %w", err)
	}

	step := it.Next
	ok := it.First()
	if opts.Reverse {
		step = it.Prev
		ok = it.Last()
	}
	for n := 0; ok; ok = step() {
		more, ferr := fn(clone(it.Key()), clone(it.Value()))
		if ferr != nil {
			_ = it.Close()
			return ferr
		}
		n++
		if !more || (opts.Limit > 0 && n >= opts.Limit) {
			break
		}
	}
	return it.Close()
}

func (p *Pebble) Close() error {
	return p.db.Close()
}
