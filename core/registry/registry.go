// Package registry stores stream records, the engine configuration and the
// id counter.
package registry

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/fluxora/streams-go/core/types"
)

// Registry is the engine's record store. Implementations serialize their own
// writes; the engine performs at most one write sequence per invocation.
type Registry interface {
	// InitConfig stores the configuration, failing with ErrAlreadyInitialized
	// if one is already present.
	InitConfig(ctx context.Context, cfg types.Config) error
	// Config returns the stored configuration, failing with ErrNotInitialized
	// if InitConfig has not run.
	Config(ctx context.Context) (types.Config, error)

	// AllocateID returns the next stream id and increments the counter. Ids
	// start at 0 and are never reused.
	AllocateID(ctx context.Context) (uint64, error)
	// Load returns a copy of the stream record, failing with
	// ErrStreamNotFound for unknown ids.
	Load(ctx context.Context, streamID uint64) (*types.Stream, error)
	// Save overwrites the stream record and renews its durability window.
	Save(ctx context.Context, stream *types.Stream) error
}

// Memory is an in-process Registry. Tests and the demo program construct a
// fresh one per use; nothing survives the process.
type Memory struct {
	mu      sync.Mutex
	cfg     *types.Config
	nextID  uint64
	streams map[uint64]*types.Stream
}

var _ Registry = (*Memory)(nil)

// NewMemory returns an empty in-memory registry.
func NewMemory() *Memory {
	return &Memory{
		streams: make(map[uint64]*types.Stream),
	}
}

func (m *Memory) InitConfig(ctx context.Context, cfg types.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg != nil {
		return errors.WithStack(types.ErrAlreadyInitialized)
	}
	m.cfg = &cfg
	return nil
}

func (m *Memory) Config(ctx context.Context) (types.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == nil {
		return types.Config{}, errors.WithStack(types.ErrNotInitialized)
	}
	return *m.cfg, nil
}

func (m *Memory) AllocateID(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	return id, nil
}

func (m *Memory) Load(ctx context.Context, streamID uint64) (*types.Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.streams[streamID]
	if !ok {
		return nil, errors.Wrapf(types.ErrStreamNotFound, "stream %d", streamID)
	}
	return s.Clone(), nil
}

func (m *Memory) Save(ctx context.Context, stream *types.Stream) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streams[stream.ID] = stream.Clone()
	return nil
}
