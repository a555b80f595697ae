// Package kv defines the ordered key-value store the chain index is built on and its engines.
package kv

import (
	"bytes"
	"errors"
)

// ErrNotFound is returned by Get for missing keys.
var ErrNotFound = errors.New("kv: key not found")

// IterOptions bounds an iteration. All bounds are optional and combine.
type IterOptions struct {
	// Prefix restricts iteration to keys that start with it.
	Prefix []byte
	// Start is the inclusive lower bound.
	Start []byte
	// End is the exclusive upper bound.
	End []byte
	// Reverse walks from the largest key down.
	Reverse bool
	// Limit stops after that many entries when positive.
	Limit int
}

// IterFunc receives copies of each key and value. Returning false stops the iteration.
type IterFunc func(key, value []byte) (bool, error)

// bounds folds the prefix into the start/end range. A nil upper bound means unbounded.
func (o IterOptions) bounds() (lower, upper []byte) {
	lower, upper = o.Start, o.End
	if len(o.Prefix) == 0 {
		return lower, upper
	}
	if lower == nil || bytes.Compare(o.Prefix, lower) > 0 {
		lower = o.Prefix
	}
	if limit := prefixEnd(o.Prefix); limit != nil && (upper == nil || bytes.Compare(limit, upper) < 0) {
		upper = limit
	}
	return lower, upper
}

// prefixEnd returns the smallest key greater than every key with the given prefix,
// or nil when no such key exists.
func prefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

type opKind uint8

const (
	opPut opKind = iota
	opDelete
)

type op struct {
	kind  opKind
	key   []byte
	value []byte
}

// Batch collects writes that a Store applies atomically and in order, so a later write to a key wins.
type Batch struct {
	ops  []op
	size int
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Put stages a write. Key and value are copied.
func (b *Batch) Put(key, value []byte) error {
	b.ops = append(b.ops, op{kind: opPut, key: bytes.Clone(key), value: bytes.Clone(value)})
	b.size += len(key) + len(value)
	return nil
}

// Delete stages a removal.
func (b *Batch) Delete(key []byte) error {
	b.ops = append(b.ops, op{kind: opDelete, key: bytes.Clone(key)})
	b.size += len(key)
	return nil
}

// Len reports the number of staged operations.
func (b *Batch) Len() int { return len(b.ops) }

// Size reports the staged payload in bytes.
func (b *Batch) Size() int { return b.size }

// Reset drops every staged operation.
func (b *Batch) Reset() {
	b.ops = b.ops[:0]
	b.size = 0
}

// Replay applies the staged operations to w in order.
func (b *Batch) Replay(w Writer) error {
	for _, o := range b.ops {
		var err error
		switch o.kind {
		case opPut:
			err = w.Put(o.key, o.value)
		case opDelete:
			err = w.Delete(o.key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
