package kv

import "time"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Reader is the read side of an ordered key-value store.
	Reader interface {
		Get(key []byte) ([]byte, error)
		Has(key []byte) (bool, error)
		Iterate(opts IterOptions, fn IterFunc) error
	}
	// Writer accepts single-key mutations. Both Store and *Batch implement it.
	Writer interface {
		Put(key, value []byte) error
		Delete(key []byte) error
	}
	// Store is an ordered key-value store with atomic batches.
	Store interface {
		Reader
		Writer
		Write(b *Batch) error
		Close() error
	}
	// StoreMetrics records store operation outcomes.
	StoreMetrics interface {
		Observe(operation string, err error, started time.Time)
		ObserveBatch(ops, bytes int)
	}
)
