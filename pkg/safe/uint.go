// Package safe provides helpers for safe numeric conversions with overflow checks.
package safe

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Uint32 converts signed or unsigned integers to uint32 with range validation.
func Uint32[T constraints.Integer](v T) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of uint32 range", v)
	}
	return uint32(v), nil
}

// Uint64 converts signed or unsigned integers to uint64 while guarding against negatives.
func Uint64[T constraints.Integer](v T) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("value %d out of uint64 range", v)
	}
	return uint64(v), nil
}

// Int64 converts integers to int64, rejecting unsigned values above math.MaxInt64.
func Int64[T constraints.Integer](v T) (int64, error) {
	if v > 0 && uint64(v) > math.MaxInt64 {
		return 0, fmt.Errorf("value %d out of int64 range", v)
	}
	return int64(v), nil
}

// Height converts a block height reported by a node into the signed height used by the index.
// Heights must be non-negative.
func Height[T constraints.Integer](v T) (int64, error) {
	h, err := Int64(v)
	if err != nil {
		return 0, err
	}
	if h < 0 {
		return 0, fmt.Errorf("negative height %d", v)
	}
	return h, nil
}
