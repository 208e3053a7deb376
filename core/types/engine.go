package types

import (
	"context"

	"github.com/cockroachdb/apd/v3"

	"github.com/fluxora/streams-go/core/util"
)

// IEngine is the stream lifecycle engine. Each method executes as one atomic
// unit of work: a precondition failure rejects the whole call with no state
// change.
type IEngine interface {
	// Init sets the streamed asset and the administrator, exactly once.
	Init(ctx context.Context, asset, admin util.Address) error

	// CreateStream pulls the deposit into custody and registers a new Active
	// stream, returning its id. Only the sender may create.
	CreateStream(ctx context.Context, input CreateStreamInput) (uint64, error)
	// PauseStream moves an Active stream to Paused. Sender-or-admin only.
	// Accrual keeps running through a pause; only withdrawal is blocked.
	PauseStream(ctx context.Context, streamID uint64) error
	// ResumeStream moves a Paused stream back to Active. Sender-or-admin only.
	ResumeStream(ctx context.Context, streamID uint64) error
	// Withdraw pays the recipient everything accrued but not yet withdrawn,
	// returning the paid amount. Recipient only. The stream completes once
	// the window has ended and the full deposit is withdrawn.
	Withdraw(ctx context.Context, streamID uint64) (*apd.BigInt, error)
	// CancelStream refunds the unstreamed remainder to the sender and marks
	// the stream Cancelled. Sender-or-admin only. The accrued-but-unclaimed
	// portion stays in custody for the recipient to withdraw later.
	CancelStream(ctx context.Context, streamID uint64) error
	// CancelStreamAsAdmin cancels any stream with admin authorization.
	CancelStreamAsAdmin(ctx context.Context, streamID uint64) error

	// GetConfig returns the asset and admin set at Init.
	GetConfig(ctx context.Context) (Config, error)
	// GetStreamState returns a snapshot of the stream record.
	GetStreamState(ctx context.Context, streamID uint64) (*Stream, error)
	// CalculateAccrued returns the portion of the deposit unlocked now.
	CalculateAccrued(ctx context.Context, streamID uint64) (*apd.BigInt, error)
}
