package types

import (
	"context"

	"github.com/cockroachdb/apd/v3"

	"github.com/fluxora/streams-go/core/util"
)

// Clock supplies the current ledger timestamp. The host guarantees it is
// non-decreasing across invocations.
type Clock interface {
	Now() uint64
}

// Authorizer proves that a principal approved the current invocation.
// Implementations return an error wrapping ErrNotAuthorized when the proof
// is absent.
type Authorizer interface {
	Require(principal util.Address) error
}

// Custody moves funds of the configured asset between accounts. Transfer
// fails on insufficient balance or any collaborator-side failure; the engine
// never retries.
type Custody interface {
	Transfer(ctx context.Context, from, to util.Address, amount *apd.BigInt) error
}
