package kv

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	"go.uber.org/zap"
)

// LevelDB is a Store backed by goleveldb.
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens (creating if needed) a goleveldb database at path.
// cacheBytes sizes the block cache; zero keeps the goleveldb default.
func OpenLevelDB(path string, cacheBytes uint64, logger *zap.Logger) (*LevelDB, error) {
	opts := &opt.Options{
		Strict: opt.DefaultStrict,
		Filter: filter.NewBloomFilter(10),
	}
	if cacheBytes > 0 {
		opts.BlockCacheCapacity = int(cacheBytes)
		opts.WriteBuffer = int(cacheBytes / 4)
	}
	logger.Info("opening leveldb",
		zap.String("path", path),
		zap.String("cache", humanize.IBytes(cacheBytes)))

	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", path, err)
	}
	return &LevelDB{db: db}, nil
}

// NewMemLevelDB returns a goleveldb database kept entirely in memory.
func NewMemLevelDB() (*LevelDB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("open memory leveldb: %w", err)
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Get(key []byte) ([]byte, error) {
	v, err := l.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	return v, err
}

func (l *LevelDB) Has(key []byte) (bool, error) {
	return l.db.Has(key, nil)
}

func (l *LevelDB) Put(key, value []byte) error {
	return l.db.Put(key, value, nil)
}

func (l *LevelDB) Delete(key []byte) error {
	return l.db.Delete(key, nil)
}

// Write applies b atomically.
func (l *LevelDB) Write(b *Batch) error {
	lb := new(leveldb.Batch)
	for _, o := range b.ops {
		switch o.kind {
		case opPut:
			lb.Put(o.key, o.value)
		case opDelete:
			lb.Delete(o.key)
		}
	}
	return l.db.Write(lb, nil)
}

func (l *LevelDB) Iterate(opts IterOptions, fn IterFunc) error {
	lower, upper := opts.bounds()
	it := l.db.NewIterator(&util.Range{Start: lower, Limit: upper}, nil)
	defer it.Release()

	if err := walk(it, opts, fn); err != nil {
		return err
	}
	return it.Error()
}

func walk(it iterator.Iterator, opts IterOptions, fn IterFunc) error {
	step := it.Next
	ok := it.First()
	if opts.Reverse {
		step = it.Prev
		ok = it.Last()
	}
	for n := 0; ok; ok = step() {
		more, err := fn(clone(it.Key()), clone(it.Value()))
		if err != nil {
			return err
		}
		n++
		if !more || (opts.Limit > 0 && n >= opts.Limit) {
			return nil
		}
	}
	return nil
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
