package kv

import (
	"errors"
	"time"
)

// ObservedStore decorates a Store with metrics for every call.
type ObservedStore struct {
	Store
	metrics StoreMetrics
}

// NewObservedStore wraps store so each operation is reported to metrics.
func NewObservedStore(store Store, metrics StoreMetrics) *ObservedStore {
	return &ObservedStore{Store: store, metrics: metrics}
}

func (s *ObservedStore) Get(key []byte) (v []byte, err error) {
	started := time.Now()
	defer func() {
		// missing keys are an expected outcome, not a store failure
		if errors.Is(err, ErrNotFound) {
			s.metrics.Observe("get", nil, started)
			return
		}
		s.metrics.Observe("get", err, started)
	}()
	return s.Store.Get(key)
}

func (s *ObservedStore) Has(key []byte) (ok bool, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("has", err, started)
	}()
	return s.Store.Has(key)
}

func (s *ObservedStore) Put(key, value []byte) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("put", err, started)
	}()
	return s.Store.Put(key, value)
}

func (s *ObservedStore) Delete(key []byte) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("delete", err, started)
	}()
	return s.Store.Delete(key)
}

func (s *ObservedStore) Write(b *Batch) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("write_batch", err, started)
		if err == nil {
			s.metrics.ObserveBatch(b.Len(), b.Size())
		}
	}()
	return s.Store.Write(b)
}

func (s *ObservedStore) Iterate(opts IterOptions, fn IterFunc) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("iterate", err, started)
	}()
	return s.Store.Iterate(opts, fn)
}
