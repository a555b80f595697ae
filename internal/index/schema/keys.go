// Package schema lays out every record of the chain index inside one ordered key space.
//
// Each record kind owns a one-byte key-set prefix. Integers inside keys are fixed-width
// big-endian so lexicographic order matches numeric order, and ledger timestamps are
// stored inverted so a forward scan returns the most recent activity first.
package schema

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Version of the on-disk layout. Bump on incompatible changes.
const Version uint32 = 1

const (
	prefixMeta       byte = 0x00
	prefixBlock      byte = 0x01
	prefixBlockTime  byte = 0x02
	prefixBlockTxs   byte = 0x03
	prefixNext       byte = 0x04
	prefixHeight     byte = 0x05
	prefixTip        byte = 0x06
	prefixTxLocation byte = 0x07
	prefixOutput     byte = 0x08
	prefixSpend      byte = 0x09
	prefixLedger     byte = 0x0a
)

const (
	hashSize    = chainhash.HashSize
	heightSize  = 8
	timeSize    = 8
	indexSize   = 4
	maxAddrSize = 255
)

// ErrMalformed reports a key or value that does not decode.
var ErrMalformed = errors.New("schema: malformed record")

func malformed(kind string, n int) error {
	return fmt.Errorf("%w: %s with %d bytes", ErrMalformed, kind, n)
}

func key(prefix byte, size int) []byte {
	k := make([]byte, 1, 1+size)
	k[0] = prefix
	return k
}

func putUint64(b []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(b, v)
}

func putUint32(b []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(b, v)
}

func unixSeconds(t time.Time) uint64 {
	if t.IsZero() || t.Unix() < 0 {
		return 0
	}
	return uint64(t.Unix())
}

func fromUnix(v uint64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(int64(v), 0).UTC()
}

func hashAt(b []byte, off int) chainhash.Hash {
	var h chainhash.Hash
	copy(h[:], b[off:off+hashSize])
	return h
}

// VersionKey holds the layout version.
func VersionKey() []byte {
	return []byte{prefixMeta, 'v'}
}

// EncodeVersion serializes a layout version.
func EncodeVersion(v uint32) []byte {
	return putUint32(nil, v)
}

// DecodeVersion parses a layout version.
func DecodeVersion(b []byte) (uint32, error) {
	if len(b) != indexSize {
		return 0, malformed("version", len(b))
	}
	return binary.BigEndian.Uint32(b), nil
}

// BlockKey addresses the block record of hash.
func BlockKey(hash chainhash.Hash) []byte {
	return append(key(prefixBlock, hashSize), hash[:]...)
}

// BlockTimeKey orders block hashes by timestamp.
func BlockTimeKey(ts time.Time, hash chainhash.Hash) []byte {
	k := putUint64(key(prefixBlockTime, timeSize+hashSize), unixSeconds(ts))
	return append(k, hash[:]...)
}

// BlockTimeBound is the first block-time key at or after ts.
func BlockTimeBound(ts time.Time) []byte {
	return putUint64(key(prefixBlockTime, timeSize), unixSeconds(ts))
}

// BlockTimePrefix covers every block-time key.
func BlockTimePrefix() []byte {
	return []byte{prefixBlockTime}
}

// ParseBlockTimeKey splits a block-time key.
func ParseBlockTimeKey(k []byte) (time.Time, chainhash.Hash, error) {
	if len(k) != 1+timeSize+hashSize || k[0] != prefixBlockTime {
		return time.Time{}, chainhash.Hash{}, malformed("block time key", len(k))
	}
	return fromUnix(binary.BigEndian.Uint64(k[1:])), hashAt(k, 1+timeSize), nil
}

// BlockTxsKey holds the ordered transaction ids of a block.
func BlockTxsKey(hash chainhash.Hash) []byte {
	return append(key(prefixBlockTxs, hashSize), hash[:]...)
}

// NextKey holds the successor of a main-chain block.
func NextKey(hash chainhash.Hash) []byte {
	return append(key(prefixNext, hashSize), hash[:]...)
}

// HeightKey maps a main-chain height to its block hash.
func HeightKey(height int64) []byte {
	return putUint64(key(prefixHeight, heightSize), uint64(height))
}

// TipKey holds the chain tip singleton.
func TipKey() []byte {
	return []byte{prefixTip}
}

// TxLocationKey exists while txid is confirmed on the main chain.
func TxLocationKey(txid chainhash.Hash) []byte {
	return append(key(prefixTxLocation, hashSize), txid[:]...)
}

// OutputKey addresses an output record.
func OutputKey(txid chainhash.Hash, index uint32) []byte {
	k := append(key(prefixOutput, hashSize+indexSize), txid[:]...)
	return putUint32(k, index)
}

// SpendPrefix covers every spend marker of one output.
func SpendPrefix(txid chainhash.Hash, index uint32) []byte {
	k := append(key(prefixSpend, 2*hashSize+2*indexSize), txid[:]...)
	return putUint32(k, index)
}

// SpendKey records that input of spendingTxid claims the output (txid, index).
func SpendKey(txid chainhash.Hash, index uint32, spendingTxid chainhash.Hash, input uint32) []byte {
	k := append(SpendPrefix(txid, index), spendingTxid[:]...)
	return putUint32(k, input)
}

// ParseSpendKey returns the spending side of a spend marker key.
func ParseSpendKey(k []byte) (spendingTxid chainhash.Hash, input uint32, err error) {
	const size = 1 + 2*hashSize + 2*indexSize
	if len(k) != size || k[0] != prefixSpend {
		return chainhash.Hash{}, 0, malformed("spend key", len(k))
	}
	off := 1 + hashSize + indexSize
	return hashAt(k, off), binary.BigEndian.Uint32(k[off+hashSize:]), nil
}

// LedgerPrefix covers every ledger entry of address.
func LedgerPrefix(address string) ([]byte, error) {
	if len(address) == 0 || len(address) > maxAddrSize {
		return nil, fmt.Errorf("address length %d out of range", len(address))
	}
	k := key(prefixLedger, 1+len(address)+timeSize+hashSize+indexSize)
	k = append(k, byte(len(address)))
	return append(k, address...), nil
}

// LedgerKey orders the outputs of an address most recent first.
func LedgerKey(address string, ts time.Time, txid chainhash.Hash, index uint32) ([]byte, error) {
	k, err := LedgerPrefix(address)
	if err != nil {
		return nil, err
	}
	k = putUint64(k, ^unixSeconds(ts))
	k = append(k, txid[:]...)
	return putUint32(k, index), nil
}

// ParseLedgerKey splits a ledger key.
func ParseLedgerKey(k []byte) (address string, ts time.Time, txid chainhash.Hash, index uint32, err error) {
	if len(k) < 2 || k[0] != prefixLedger {
		return "", time.Time{}, chainhash.Hash{}, 0, malformed("ledger key", len(k))
	}
	n := int(k[1])
	if len(k) != 2+n+timeSize+hashSize+indexSize {
		return "", time.Time{}, chainhash.Hash{}, 0, malformed("ledger key", len(k))
	}
	off := 2 + n
	address = string(k[2:off])
	ts = fromUnix(^binary.BigEndian.Uint64(k[off:]))
	off += timeSize
	txid = hashAt(k, off)
	index = binary.BigEndian.Uint32(k[off+hashSize:])
	return address, ts, txid, index, nil
}
