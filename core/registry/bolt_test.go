package registry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fluxora/streams-go/core/types"
	"github.com/fluxora/streams-go/core/util"
)

type testClock struct {
	now uint64
}

func (c *testClock) Now() uint64 { return c.now }

func openTestBolt(t *testing.T, clock types.Clock, horizon uint64) *Bolt {
	t.Helper()
	b, err := OpenBolt(filepath.Join(t.TempDir(), "registry.db"), clock, horizon)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func TestBolt_Config(t *testing.T) {
	ctx := context.Background()
	b := openTestBolt(t, &testClock{}, 0)

	_, err := b.Config(ctx)
	require.ErrorIs(t, err, types.ErrNotInitialized)

	cfg := types.Config{Asset: "TOKEN", Admin: "ADMIN"}
	require.NoError(t, b.InitConfig(ctx, cfg))

	got, err := b.Config(ctx)
	require.NoError(t, err)
	require.Equal(t, cfg, got)

	err = b.InitConfig(ctx, cfg)
	require.ErrorIs(t, err, types.ErrAlreadyInitialized)
}

func TestBolt_AllocateID(t *testing.T) {
	ctx := context.Background()
	b := openTestBolt(t, &testClock{}, 0)
	require.NoError(t, b.InitConfig(ctx, types.Config{Asset: "TOKEN", Admin: "ADMIN"}))

	for want := uint64(0); want < 3; want++ {
		id, err := b.AllocateID(ctx)
		require.NoError(t, err)
		require.Equal(t, want, id)
	}
}

func TestBolt_RoundTrip(t *testing.T) {
	ctx := context.Background()
	b := openTestBolt(t, &testClock{}, 0)

	s := sampleStream(7)
	s.WithdrawnAmount = util.NewAmount(250)
	s.Status = types.StreamStatusPaused
	require.NoError(t, b.Save(ctx, s))

	got, err := b.Load(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, s.ID, got.ID)
	require.Equal(t, s.Sender, got.Sender)
	require.Equal(t, s.Recipient, got.Recipient)
	require.Equal(t, s.StartTime, got.StartTime)
	require.Equal(t, s.CliffTime, got.CliffTime)
	require.Equal(t, s.EndTime, got.EndTime)
	require.Equal(t, s.Status, got.Status)
	require.Zero(t, s.DepositAmount.Cmp(got.DepositAmount))
	require.Zero(t, s.RatePerSecond.Cmp(got.RatePerSecond))
	require.Zero(t, s.WithdrawnAmount.Cmp(got.WithdrawnAmount))

	_, err = b.Load(ctx, 8)
	require.ErrorIs(t, err, types.ErrStreamNotFound)
}

func TestBolt_ExpiryRenewedOnWrite(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{}
	b := openTestBolt(t, clock, 100)

	s := sampleStream(0)
	require.NoError(t, b.Save(ctx, s))

	// Inside the window the record is there.
	clock.now = 100
	_, err := b.Load(ctx, 0)
	require.NoError(t, err)

	// A write at t=100 pushes expiry to t=200; t=150 still loads.
	require.NoError(t, b.Save(ctx, s))
	clock.now = 150
	_, err = b.Load(ctx, 0)
	require.NoError(t, err)

	// Without further writes the record expires.
	clock.now = 201
	_, err = b.Load(ctx, 0)
	require.ErrorIs(t, err, types.ErrStreamNotFound)
}
