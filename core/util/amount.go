package util

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// Monetary amounts are 128-bit signed integers on the host ledger. They are
// carried as *apd.BigInt so arithmetic is exact, with the int128 range
// enforced at every boundary where a value enters the engine: a computation
// that would leave the range is rejected, never wrapped.

var (
	// MaxInt128 is the largest amount representable on the ledger, 2^127-1.
	MaxInt128 = mustAmount("170141183460469231731687303715884105727")
	// MinInt128 is the smallest amount representable on the ledger, -2^127.
	MinInt128 = mustAmount("-170141183460469231731687303715884105728")
)

// NewAmount returns a fresh amount holding v.
func NewAmount(v int64) *apd.BigInt {
	return new(apd.BigInt).SetInt64(v)
}

// ParseAmount parses a base-10 amount, rejecting values outside the ledger's
// int128 range.
func ParseAmount(s string) (*apd.BigInt, error) {
	v, ok := new(apd.BigInt).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if !FitsInt128(v) {
		return nil, fmt.Errorf("amount %s outside int128 range", s)
	}
	return v, nil
}

// FitsInt128 reports whether v is representable as a 128-bit signed integer.
func FitsInt128(v *apd.BigInt) bool {
	return v.Cmp(MinInt128) >= 0 && v.Cmp(MaxInt128) <= 0
}

func mustAmount(s string) *apd.BigInt {
	v, ok := new(apd.BigInt).SetString(s, 10)
	if !ok {
		panic("util: bad amount literal " + s)
	}
	return v
}
