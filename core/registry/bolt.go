package registry

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/fluxora/streams-go/core/types"
	"github.com/fluxora/streams-go/core/util"
)

// DefaultTTLHorizon is how far into the future a stream record's expiry is
// pushed on every write: seven days of ledger time.
const DefaultTTLHorizon uint64 = 7 * 24 * 3600

var (
	instanceBucket = []byte("instance")
	streamsBucket  = []byte("streams")

	configKey  = []byte("config")
	counterKey = []byte("next_stream_id")
)

// Bolt is a durable Registry on a bbolt file. Config and the id counter live
// for the database's lifetime; stream records carry an expiry timestamp that
// is renewed to now+horizon on every save, so records stay alive as long as
// they are written to. A record past its expiry loads as ErrStreamNotFound.
type Bolt struct {
	db      *bolt.DB
	clock   types.Clock
	horizon uint64
}

var _ Registry = (*Bolt)(nil)

// OpenBolt opens (creating if needed) the registry database at path.
// A horizon of 0 selects DefaultTTLHorizon.
func OpenBolt(path string, clock types.Clock, horizon uint64) (*Bolt, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open registry database")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{instanceBucket, streamsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create registry buckets")
	}
	if horizon == 0 {
		horizon = DefaultTTLHorizon
	}
	return &Bolt{db: db, clock: clock, horizon: horizon}, nil
}

// Close closes the underlying database.
func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) InitConfig(ctx context.Context, cfg types.Config) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bk := tx.Bucket(instanceBucket)
		if bk.Get(configKey) != nil {
			return errors.WithStack(types.ErrAlreadyInitialized)
		}
		js, err := json.Marshal(configRecord{
			Asset: cfg.Asset.String(),
			Admin: cfg.Admin.String(),
		})
		if err != nil {
			return errors.WithStack(err)
		}
		if err := bk.Put(configKey, js); err != nil {
			return err
		}
		return bk.Put(counterKey, encodeID(0))
	})
}

func (b *Bolt) Config(ctx context.Context) (types.Config, error) {
	var cfg types.Config
	err := b.db.View(func(tx *bolt.Tx) error {
		bs := tx.Bucket(instanceBucket).Get(configKey)
		if bs == nil {
			return errors.WithStack(types.ErrNotInitialized)
		}
		var rec configRecord
		if err := json.Unmarshal(bs, &rec); err != nil {
			return errors.Wrap(err, "decode config record")
		}
		cfg.Asset = util.Address(rec.Asset)
		cfg.Admin = util.Address(rec.Admin)
		return nil
	})
	return cfg, err
}

func (b *Bolt) AllocateID(ctx context.Context) (uint64, error) {
	var id uint64
	err := b.db.Update(func(tx *bolt.Tx) error {
		bk := tx.Bucket(instanceBucket)
		if bs := bk.Get(counterKey); bs != nil {
			id = binary.BigEndian.Uint64(bs)
		}
		return bk.Put(counterKey, encodeID(id+1))
	})
	if err != nil {
		return 0, errors.Wrap(err, "allocate stream id")
	}
	return id, nil
}

func (b *Bolt) Load(ctx context.Context, streamID uint64) (*types.Stream, error) {
	var stream *types.Stream
	err := b.db.View(func(tx *bolt.Tx) error {
		bs := tx.Bucket(streamsBucket).Get(encodeID(streamID))
		if bs == nil {
			return errors.Wrapf(types.ErrStreamNotFound, "stream %d", streamID)
		}
		var rec streamRecord
		if err := json.Unmarshal(bs, &rec); err != nil {
			return errors.Wrapf(err, "decode stream %d", streamID)
		}
		if rec.ExpiresAt < b.clock.Now() {
			return errors.Wrapf(types.ErrStreamNotFound, "stream %d expired", streamID)
		}
		s, err := rec.toStream()
		if err != nil {
			return errors.Wrapf(err, "decode stream %d", streamID)
		}
		stream = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stream, nil
}

func (b *Bolt) Save(ctx context.Context, stream *types.Stream) error {
	rec := newStreamRecord(stream, b.clock.Now()+b.horizon)
	js, err := json.Marshal(&rec)
	if err != nil {
		return errors.WithStack(err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(streamsBucket).Put(encodeID(stream.ID), js)
	})
}

func encodeID(id uint64) []byte {
	bs := make([]byte, 8)
	binary.BigEndian.PutUint64(bs, id)
	return bs
}

type configRecord struct {
	Asset string `json:"asset"`
	Admin string `json:"admin"`
}

// streamRecord is the stored form of a stream. Amounts are base-10 strings.
type streamRecord struct {
	ExpiresAt       uint64 `json:"expires_at"`
	ID              uint64 `json:"id"`
	Sender          string `json:"sender"`
	Recipient       string `json:"recipient"`
	DepositAmount   string `json:"deposit_amount"`
	RatePerSecond   string `json:"rate_per_second"`
	StartTime       uint64 `json:"start_time"`
	CliffTime       uint64 `json:"cliff_time"`
	EndTime         uint64 `json:"end_time"`
	WithdrawnAmount string `json:"withdrawn_amount"`
	Status          int    `json:"status"`
}

func newStreamRecord(s *types.Stream, expiresAt uint64) streamRecord {
	return streamRecord{
		ExpiresAt:       expiresAt,
		ID:              s.ID,
		Sender:          s.Sender.String(),
		Recipient:       s.Recipient.String(),
		DepositAmount:   s.DepositAmount.String(),
		RatePerSecond:   s.RatePerSecond.String(),
		StartTime:       s.StartTime,
		CliffTime:       s.CliffTime,
		EndTime:         s.EndTime,
		WithdrawnAmount: s.WithdrawnAmount.String(),
		Status:          int(s.Status),
	}
}

func (r *streamRecord) toStream() (*types.Stream, error) {
	deposit, err := util.ParseAmount(r.DepositAmount)
	if err != nil {
		return nil, err
	}
	rate, err := util.ParseAmount(r.RatePerSecond)
	if err != nil {
		return nil, err
	}
	withdrawn, err := util.ParseAmount(r.WithdrawnAmount)
	if err != nil {
		return nil, err
	}
	return &types.Stream{
		ID:              r.ID,
		Sender:          util.Address(r.Sender),
		Recipient:       util.Address(r.Recipient),
		DepositAmount:   deposit,
		RatePerSecond:   rate,
		StartTime:       r.StartTime,
		CliffTime:       r.CliffTime,
		EndTime:         r.EndTime,
		WithdrawnAmount: withdrawn,
		Status:          types.StreamStatus(r.Status),
	}, nil
}
