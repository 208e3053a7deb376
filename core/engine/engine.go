// Package engine implements the stream lifecycle state machine: creation,
// pause/resume, incremental withdrawal and pro-rata cancellation of
// continuous payment streams.
package engine

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fluxora/streams-go/core/logging"
	"github.com/fluxora/streams-go/core/registry"
	"github.com/fluxora/streams-go/core/types"
	"github.com/fluxora/streams-go/core/util"
)

// Options wires the engine to its collaborators. All collaborators are
// required; Logger defaults to the process logger.
type Options struct {
	Registry   registry.Registry `validate:"required"`
	Clock      types.Clock       `validate:"required"`
	Authorizer types.Authorizer  `validate:"required"`
	Custody    types.Custody     `validate:"required"`

	// CustodyAccount is the engine's own account, holding every stream's
	// deposit from creation until disbursal.
	CustodyAccount util.Address `validate:"required"`

	Logger *zap.Logger
}

// Engine is the lifecycle controller. One instance serves many streams. The
// host ledger runs one invocation to completion before the next begins, so
// the engine holds no locks of its own beyond the registry's.
type Engine struct {
	registry registry.Registry
	clock    types.Clock
	auth     types.Authorizer
	custody  types.Custody
	account  util.Address
	logger   *zap.Logger
}

var _ types.IEngine = (*Engine)(nil)

// New validates the options and returns an engine.
func New(opts Options) (*Engine, error) {
	if err := validator.New().Struct(&opts); err != nil {
		return nil, errors.WithStack(err)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Logger
	}
	return &Engine{
		registry: opts.Registry,
		clock:    opts.Clock,
		auth:     opts.Authorizer,
		custody:  opts.Custody,
		account:  opts.CustodyAccount,
		logger:   opts.Logger,
	}, nil
}

// Init stores the streamed asset and the administrator identity. It runs
// exactly once; a second call fails with ErrAlreadyInitialized.
func (e *Engine) Init(ctx context.Context, asset, admin util.Address) error {
	if asset.IsZero() || admin.IsZero() {
		return errors.Wrap(types.ErrInvalidParams, "asset and admin are required")
	}
	if err := e.registry.InitConfig(ctx, types.Config{Asset: asset, Admin: admin}); err != nil {
		return err
	}
	e.logger.Info("engine initialised",
		zap.String("asset", asset.String()),
		zap.String("admin", admin.String()))
	return nil
}

// GetConfig returns the configuration set at Init.
func (e *Engine) GetConfig(ctx context.Context) (types.Config, error) {
	return e.registry.Config(ctx)
}

// requireSenderOrAdmin demands proof that the stream's sender approved the
// call; when the sender is the admin, admin proof is demanded instead. The
// recipient can never satisfy this shape.
func (e *Engine) requireSenderOrAdmin(ctx context.Context, sender util.Address) error {
	cfg, err := e.registry.Config(ctx)
	if err != nil {
		return err
	}
	if sender == cfg.Admin {
		return e.auth.Require(cfg.Admin)
	}
	return e.auth.Require(sender)
}
