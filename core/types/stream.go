package types

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/fluxora/streams-go/core/util"
)

// StreamStatus is the lifecycle state of a stream. Active and Paused are the
// only non-terminal states; Completed and Cancelled are terminal.
type StreamStatus int

const (
	StreamStatusActive StreamStatus = iota
	StreamStatusPaused
	StreamStatusCompleted
	StreamStatusCancelled
)

// String returns the lowercase name of the status.
func (s StreamStatus) String() string {
	switch s {
	case StreamStatusActive:
		return "active"
	case StreamStatusPaused:
		return "paused"
	case StreamStatusCompleted:
		return "completed"
	case StreamStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status permits no further transitions.
func (s StreamStatus) Terminal() bool {
	return s == StreamStatusCompleted || s == StreamStatusCancelled
}

// Stream is one funding relationship: a deposit held in custody and released
// from sender to recipient at RatePerSecond over [StartTime, EndTime], gated
// by CliffTime. Timestamps are ledger seconds. Identity fields and the
// schedule are immutable after creation; only WithdrawnAmount and Status
// change afterwards.
type Stream struct {
	ID            uint64
	Sender        util.Address
	Recipient     util.Address
	DepositAmount *apd.BigInt
	RatePerSecond *apd.BigInt
	StartTime     uint64
	CliffTime     uint64
	EndTime       uint64

	WithdrawnAmount *apd.BigInt
	Status          StreamStatus
}

// Clone returns a deep copy of the stream, so callers can hold a snapshot
// without aliasing the registry's record.
func (s *Stream) Clone() *Stream {
	c := *s
	c.DepositAmount = new(apd.BigInt).Set(s.DepositAmount)
	c.RatePerSecond = new(apd.BigInt).Set(s.RatePerSecond)
	c.WithdrawnAmount = new(apd.BigInt).Set(s.WithdrawnAmount)
	return &c
}
