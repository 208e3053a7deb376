package engine

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/fluxora/streams-go/core/types"
)

// Accrued returns the portion of the stream's deposit unlocked at the given
// ledger time. Pure function of the record and now; monotonic in now and
// bounded by the deposit.
//
// Before the cliff nothing is unlocked, even when now is past start_time.
// After it, accrual is elapsed time (clamped to the stream window) times the
// per-second rate, capped at the deposit. Pausing does not enter into it:
// accrual is purely time-based, a pause only blocks withdrawal.
func Accrued(s *types.Stream, now uint64) *apd.BigInt {
	if now < s.CliffTime {
		return new(apd.BigInt)
	}

	end := now
	if end > s.EndTime {
		end = s.EndTime
	}
	var elapsed uint64
	if end > s.StartTime {
		elapsed = end - s.StartTime
	}

	accrued := new(apd.BigInt).SetUint64(elapsed)
	accrued.Mul(accrued, s.RatePerSecond)
	if accrued.Cmp(s.DepositAmount) > 0 {
		accrued.Set(s.DepositAmount)
	}
	return accrued
}
