package engine

import (
	"context"

	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fluxora/streams-go/core/types"
)

// CreateStream validates the parameters, pulls the deposit from the sender
// into custody, allocates the next stream id and stores the new Active
// record. It returns the allocated id.
func (e *Engine) CreateStream(ctx context.Context, input types.CreateStreamInput) (uint64, error) {
	if err := e.auth.Require(input.Sender); err != nil {
		return 0, err
	}
	if err := input.Validate(); err != nil {
		return 0, err
	}

	if err := e.custody.Transfer(ctx, input.Sender, e.account, input.DepositAmount); err != nil {
		return 0, errors.Wrap(err, "pull deposit into custody")
	}

	id, err := e.registry.AllocateID(ctx)
	if err != nil {
		return 0, err
	}
	stream := &types.Stream{
		ID:              id,
		Sender:          input.Sender,
		Recipient:       input.Recipient,
		DepositAmount:   new(apd.BigInt).Set(input.DepositAmount),
		RatePerSecond:   new(apd.BigInt).Set(input.RatePerSecond),
		StartTime:       input.StartTime,
		CliffTime:       input.CliffTime,
		EndTime:         input.EndTime,
		WithdrawnAmount: new(apd.BigInt),
		Status:          types.StreamStatusActive,
	}
	if err := e.registry.Save(ctx, stream); err != nil {
		return 0, err
	}

	e.logger.Info("stream created",
		zap.Uint64("stream_id", id),
		zap.String("sender", input.Sender.String()),
		zap.String("recipient", input.Recipient.String()),
		zap.String("deposit_amount", input.DepositAmount.String()))
	return id, nil
}

// PauseStream moves an Active stream to Paused. No funds move. Accrual keeps
// running through the pause; only withdrawal access is blocked.
func (e *Engine) PauseStream(ctx context.Context, streamID uint64) error {
	stream, err := e.registry.Load(ctx, streamID)
	if err != nil {
		return err
	}
	if err := e.requireSenderOrAdmin(ctx, stream.Sender); err != nil {
		return err
	}
	if stream.Status != types.StreamStatusActive {
		return errors.Wrap(types.ErrInvalidParams, "stream is not active")
	}

	stream.Status = types.StreamStatusPaused
	if err := e.registry.Save(ctx, stream); err != nil {
		return err
	}

	e.logger.Info("stream paused", zap.Uint64("stream_id", streamID))
	return nil
}

// ResumeStream moves a Paused stream back to Active. No funds move.
func (e *Engine) ResumeStream(ctx context.Context, streamID uint64) error {
	stream, err := e.registry.Load(ctx, streamID)
	if err != nil {
		return err
	}
	if err := e.requireSenderOrAdmin(ctx, stream.Sender); err != nil {
		return err
	}
	if stream.Status != types.StreamStatusPaused {
		return errors.Wrap(types.ErrInvalidParams, "stream is not paused")
	}

	stream.Status = types.StreamStatusActive
	if err := e.registry.Save(ctx, stream); err != nil {
		return err
	}

	e.logger.Info("stream resumed", zap.Uint64("stream_id", streamID))
	return nil
}

// Withdraw pays the recipient everything accrued but not yet withdrawn and
// returns the paid amount. Only the recipient may call it. A Paused stream
// must be resumed first. The stream completes once the window has ended and
// the full deposit is withdrawn.
//
// A Cancelled stream is deliberately still withdrawable: cancellation only
// refunds the unstreamed remainder, so whatever had accrued before the
// cancel stays claimable here.
func (e *Engine) Withdraw(ctx context.Context, streamID uint64) (*apd.BigInt, error) {
	stream, err := e.registry.Load(ctx, streamID)
	if err != nil {
		return nil, err
	}
	if err := e.auth.Require(stream.Recipient); err != nil {
		return nil, err
	}
	if stream.Status == types.StreamStatusCompleted {
		return nil, errors.Wrap(types.ErrInvalidParams, "stream already completed")
	}
	if stream.Status == types.StreamStatusPaused {
		return nil, errors.Wrap(types.ErrInvalidParams, "cannot withdraw from paused stream")
	}

	now := e.clock.Now()
	withdrawable := Accrued(stream, now)
	withdrawable.Sub(withdrawable, stream.WithdrawnAmount)
	if withdrawable.Sign() <= 0 {
		return nil, errors.Wrap(types.ErrInvalidParams, "nothing to withdraw")
	}

	if err := e.custody.Transfer(ctx, e.account, stream.Recipient, withdrawable); err != nil {
		return nil, errors.Wrap(err, "pay recipient")
	}

	stream.WithdrawnAmount.Add(stream.WithdrawnAmount, withdrawable)
	if now >= stream.EndTime && stream.WithdrawnAmount.Cmp(stream.DepositAmount) >= 0 {
		stream.Status = types.StreamStatusCompleted
	}
	if err := e.registry.Save(ctx, stream); err != nil {
		return nil, err
	}

	e.logger.Info("stream withdrawal",
		zap.Uint64("stream_id", streamID),
		zap.String("amount", withdrawable.String()),
		zap.String("status", stream.Status.String()))
	return withdrawable, nil
}

// CancelStream settles an Active or Paused stream: the unstreamed remainder
// of the deposit goes back to the sender and the stream becomes Cancelled.
// The accrued-but-unclaimed portion stays in custody for the recipient.
func (e *Engine) CancelStream(ctx context.Context, streamID uint64) error {
	stream, err := e.registry.Load(ctx, streamID)
	if err != nil {
		return err
	}
	if err := e.requireSenderOrAdmin(ctx, stream.Sender); err != nil {
		return err
	}
	return e.cancel(ctx, stream)
}

// CancelStreamAsAdmin cancels a stream on admin authorization alone,
// regardless of who the sender is.
func (e *Engine) CancelStreamAsAdmin(ctx context.Context, streamID uint64) error {
	cfg, err := e.registry.Config(ctx)
	if err != nil {
		return err
	}
	if err := e.auth.Require(cfg.Admin); err != nil {
		return err
	}
	stream, err := e.registry.Load(ctx, streamID)
	if err != nil {
		return err
	}
	return e.cancel(ctx, stream)
}

func (e *Engine) cancel(ctx context.Context, stream *types.Stream) error {
	if stream.Status != types.StreamStatusActive && stream.Status != types.StreamStatusPaused {
		return errors.Wrap(types.ErrInvalidParams, "stream must be active or paused to cancel")
	}

	accrued := Accrued(stream, e.clock.Now())
	unstreamed := new(apd.BigInt).Sub(stream.DepositAmount, accrued)
	if unstreamed.Sign() > 0 {
		if err := e.custody.Transfer(ctx, e.account, stream.Sender, unstreamed); err != nil {
			return errors.Wrap(err, "refund sender")
		}
	}

	stream.Status = types.StreamStatusCancelled
	if err := e.registry.Save(ctx, stream); err != nil {
		return err
	}

	e.logger.Info("stream cancelled",
		zap.Uint64("stream_id", stream.ID),
		zap.String("refunded_amount", unstreamed.String()))
	return nil
}

// GetStreamState returns a snapshot of the stream record.
func (e *Engine) GetStreamState(ctx context.Context, streamID uint64) (*types.Stream, error) {
	return e.registry.Load(ctx, streamID)
}

// CalculateAccrued returns the portion of the deposit unlocked at the
// current ledger time.
func (e *Engine) CalculateAccrued(ctx context.Context, streamID uint64) (*apd.BigInt, error) {
	stream, err := e.registry.Load(ctx, streamID)
	if err != nil {
		return nil, err
	}
	return Accrued(stream, e.clock.Now()), nil
}
