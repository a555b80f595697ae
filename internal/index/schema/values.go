package schema

import (
	"encoding/binary"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// NotMain is the height stored for blocks off the main chain.
const NotMain int64 = -1

// BlockValue is the stored part of a block record.
type BlockValue struct {
	Prev   chainhash.Hash
	Height int64
	Time   time.Time
}

// EncodeBlock serializes a block record.
func EncodeBlock(v BlockValue) []byte {
	b := make([]byte, 0, hashSize+heightSize+timeSize)
	b = append(b, v.Prev[:]...)
	b = putUint64(b, uint64(v.Height))
	return putUint64(b, unixSeconds(v.Time))
}

// DecodeBlock parses a block record.
func DecodeBlock(b []byte) (BlockValue, error) {
	if len(b) != hashSize+heightSize+timeSize {
		return BlockValue{}, malformed("block", len(b))
	}
	return BlockValue{
		Prev:   hashAt(b, 0),
		Height: int64(binary.BigEndian.Uint64(b[hashSize:])),
		Time:   fromUnix(binary.BigEndian.Uint64(b[hashSize+heightSize:])),
	}, nil
}

// EncodeHash serializes a single hash value.
func EncodeHash(h chainhash.Hash) []byte {
	return append([]byte(nil), h[:]...)
}

// DecodeHash parses a single hash value.
func DecodeHash(b []byte) (chainhash.Hash, error) {
	if len(b) != hashSize {
		return chainhash.Hash{}, malformed("hash", len(b))
	}
	return hashAt(b, 0), nil
}

// EncodeTxIDs concatenates transaction ids.
func EncodeTxIDs(ids []chainhash.Hash) []byte {
	b := make([]byte, 0, len(ids)*hashSize)
	for i := range ids {
		b = append(b, ids[i][:]...)
	}
	return b
}

// DecodeTxIDs splits concatenated transaction ids.
func DecodeTxIDs(b []byte) ([]chainhash.Hash, error) {
	if len(b)%hashSize != 0 {
		return nil, malformed("tx list", len(b))
	}
	ids := make([]chainhash.Hash, 0, len(b)/hashSize)
	for off := 0; off < len(b); off += hashSize {
		ids = append(ids, hashAt(b, off))
	}
	return ids, nil
}

// Location pairs a block hash with its height. It is the value of the tip and tx-location records.
type Location struct {
	Hash   chainhash.Hash
	Height int64
}

// EncodeLocation serializes a location.
func EncodeLocation(l Location) []byte {
	b := make([]byte, 0, hashSize+heightSize)
	b = append(b, l.Hash[:]...)
	return putUint64(b, uint64(l.Height))
}

// DecodeLocation parses a location.
func DecodeLocation(b []byte) (Location, error) {
	if len(b) != hashSize+heightSize {
		return Location{}, malformed("location", len(b))
	}
	return Location{Hash: hashAt(b, 0), Height: int64(binary.BigEndian.Uint64(b[hashSize:]))}, nil
}

// OutputValue is the immutable part of an output record.
type OutputValue struct {
	Address string
	Value   uint64
	Script  []byte
}

// EncodeOutput serializes an output record.
func EncodeOutput(v OutputValue) []byte {
	b := make([]byte, 0, 8+2*binary.MaxVarintLen64+len(v.Address)+len(v.Script))
	b = putUint64(b, v.Value)
	b = appendBytes(b, []byte(v.Address))
	return appendBytes(b, v.Script)
}

// DecodeOutput parses an output record.
func DecodeOutput(b []byte) (OutputValue, error) {
	if len(b) < 8 {
		return OutputValue{}, malformed("output", len(b))
	}
	v := OutputValue{Value: binary.BigEndian.Uint64(b)}
	addr, rest, ok := readBytes(b[8:])
	if !ok {
		return OutputValue{}, malformed("output address", len(b))
	}
	script, rest, ok := readBytes(rest)
	if !ok || len(rest) != 0 {
		return OutputValue{}, malformed("output script", len(b))
	}
	v.Address = string(addr)
	v.Script = script
	return v, nil
}

// EncodeSpendTime serializes the first-seen time of a spend marker.
func EncodeSpendTime(t time.Time) []byte {
	return putUint64(nil, unixSeconds(t))
}

// DecodeSpendTime parses a spend marker value.
func DecodeSpendTime(b []byte) (time.Time, error) {
	if len(b) != timeSize {
		return time.Time{}, malformed("spend time", len(b))
	}
	return fromUnix(binary.BigEndian.Uint64(b)), nil
}

// CacheState tracks how much of a ledger entry no longer needs deriving.
type CacheState uint8

const (
	// Uncached entries resolve confirmations on every read.
	Uncached CacheState = iota
	// ConfirmedCached entries carry the funding height and the output script.
	ConfirmedCached
	// SpentCached entries carry the funding height and the confirmed spend.
	SpentCached
)

func (s CacheState) String() string {
	switch s {
	case Uncached:
		return "uncached"
	case ConfirmedCached:
		return "confirmed"
	case SpentCached:
		return "spent"
	default:
		return "unknown"
	}
}

// SpendRef is the cached canonical spend of an output.
type SpendRef struct {
	TxID   chainhash.Hash
	Input  uint32
	Time   time.Time
	Height int64
}

// LedgerValue is the value of an address ledger entry.
type LedgerValue struct {
	Value  uint64
	State  CacheState
	Height int64
	Script []byte
	Spend  SpendRef
}

// EncodeLedger serializes a ledger entry according to its cache state.
func EncodeLedger(v LedgerValue) []byte {
	b := make([]byte, 0, 8+1+heightSize+hashSize+indexSize+timeSize+heightSize)
	b = putUint64(b, v.Value)
	b = append(b, byte(v.State))
	switch v.State {
	case ConfirmedCached:
		b = putUint64(b, uint64(v.Height))
		b = appendBytes(b, v.Script)
	case SpentCached:
		b = putUint64(b, uint64(v.Height))
		b = append(b, v.Spend.TxID[:]...)
		b = putUint32(b, v.Spend.Input)
		b = putUint64(b, unixSeconds(v.Spend.Time))
		b = putUint64(b, uint64(v.Spend.Height))
	}
	return b
}

// DecodeLedger parses a ledger entry.
func DecodeLedger(b []byte) (LedgerValue, error) {
	if len(b) < 9 {
		return LedgerValue{}, malformed("ledger", len(b))
	}
	v := LedgerValue{Value: binary.BigEndian.Uint64(b), State: CacheState(b[8])}
	rest := b[9:]
	switch v.State {
	case Uncached:
		if len(rest) != 0 {
			return LedgerValue{}, malformed("ledger uncached", len(b))
		}
	case ConfirmedCached:
		if len(rest) < heightSize {
			return LedgerValue{}, malformed("ledger confirmed", len(b))
		}
		v.Height = int64(binary.BigEndian.Uint64(rest))
		script, tail, ok := readBytes(rest[heightSize:])
		if !ok || len(tail) != 0 {
			return LedgerValue{}, malformed("ledger confirmed script", len(b))
		}
		v.Script = script
	case SpentCached:
		if len(rest) != heightSize+hashSize+indexSize+timeSize+heightSize {
			return LedgerValue{}, malformed("ledger spent", len(b))
		}
		v.Height = int64(binary.BigEndian.Uint64(rest))
		off := heightSize
		v.Spend.TxID = hashAt(rest, off)
		off += hashSize
		v.Spend.Input = binary.BigEndian.Uint32(rest[off:])
		off += indexSize
		v.Spend.Time = fromUnix(binary.BigEndian.Uint64(rest[off:]))
		off += timeSize
		v.Spend.Height = int64(binary.BigEndian.Uint64(rest[off:]))
	default:
		return LedgerValue{}, malformed("ledger state", len(b))
	}
	return v, nil
}

func appendBytes(b, v []byte) []byte {
	b = binary.AppendUvarint(b, uint64(len(v)))
	return append(b, v...)
}

func readBytes(b []byte) (v, rest []byte, ok bool) {
	n, size := binary.Uvarint(b)
	if size <= 0 || uint64(len(b)-size) < n {
		return nil, nil, false
	}
	end := size + int(n)
	if n == 0 {
		return nil, b[end:], true
	}
	return append([]byte(nil), b[size:end]...), b[end:], true
}
