package types

import (
	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"

	"github.com/fluxora/streams-go/core/util"
)

// CreateStreamInput contains the parameters for creating a stream.
type CreateStreamInput struct {
	Sender        util.Address
	Recipient     util.Address
	DepositAmount *apd.BigInt
	RatePerSecond *apd.BigInt
	StartTime     uint64 // ledger seconds
	CliffTime     uint64 // accrual is zero before this; within [StartTime, EndTime]
	EndTime       uint64
}

// Validate checks the creation parameters. Every failure wraps
// ErrInvalidParams; the message names the violated check.
func (c *CreateStreamInput) Validate() error {
	if c.Sender.IsZero() || c.Recipient.IsZero() {
		return errors.Wrap(ErrInvalidParams, "sender and recipient are required")
	}
	if c.Sender == c.Recipient {
		return errors.Wrap(ErrInvalidParams, "sender and recipient must be different")
	}
	if c.DepositAmount == nil || c.DepositAmount.Sign() <= 0 {
		return errors.Wrap(ErrInvalidParams, "deposit_amount must be positive")
	}
	if c.RatePerSecond == nil || c.RatePerSecond.Sign() <= 0 {
		return errors.Wrap(ErrInvalidParams, "rate_per_second must be positive")
	}
	if !util.FitsInt128(c.DepositAmount) {
		return errors.Wrap(ErrInvalidParams, "deposit_amount outside int128 range")
	}
	if !util.FitsInt128(c.RatePerSecond) {
		return errors.Wrap(ErrInvalidParams, "rate_per_second outside int128 range")
	}
	if c.EndTime <= c.StartTime {
		return errors.Wrap(ErrInvalidParams, "end_time must be greater than start_time")
	}
	if c.CliffTime < c.StartTime || c.CliffTime > c.EndTime {
		return errors.Wrap(ErrInvalidParams, "cliff_time must be within [start_time, end_time]")
	}

	duration := new(apd.BigInt).SetUint64(c.EndTime - c.StartTime)
	total := new(apd.BigInt).Mul(c.RatePerSecond, duration)
	if !util.FitsInt128(total) {
		return errors.Wrap(ErrInvalidParams, "total streamable amount overflows int128")
	}
	if c.DepositAmount.Cmp(total) < 0 {
		return errors.Wrap(ErrInvalidParams, "deposit_amount must cover total streamable amount")
	}
	return nil
}
