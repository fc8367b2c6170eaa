package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/biruk-1/Health-coach-sub000/internal/config"
	"github.com/biruk-1/Health-coach-sub000/internal/domain"
)

// ErrMiss is returned when no usable snapshot exists.
var ErrMiss = errors.New("snapshot miss")

const formatVersion = 1

// Store persists the last good bulk dataset so a restarted instance can
// serve real records while the bulk source is down.
type Store interface {
	Load(ctx context.Context) ([]domain.CoachRecord, error)
	Save(ctx context.Context, records []domain.CoachRecord) error
}

type envelope struct {
	Version int                  `json:"version"`
	SavedAt time.Time            `json:"saved_at"`
	Coaches []domain.CoachRecord `json:"coaches"`
}

// Encode serialises records into the snapshot format.
func Encode(records []domain.CoachRecord, savedAt time.Time) ([]byte, error) {
	data, err := json.Marshal(envelope{Version: formatVersion, SavedAt: savedAt.UTC(), Coaches: records})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot. Snapshots of another version, empty snapshots
// and snapshots holding invalid records are misses.
func Decode(data []byte) ([]domain.CoachRecord, time.Time, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if env.Version != formatVersion {
		return nil, time.Time{}, fmt.Errorf("%w: version %d", ErrMiss, env.Version)
	}
	if len(env.Coaches) == 0 {
		return nil, time.Time{}, ErrMiss
	}
	for i := range env.Coaches {
		if err := env.Coaches[i].Validate(); err != nil {
			return nil, time.Time{}, fmt.Errorf("%w: record %d: %v", ErrMiss, i, err)
		}
	}
	return env.Coaches, env.SavedAt, nil
}

// RedisStore keeps the snapshot under a single Redis key.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and returns a snapshot store.
func NewRedisStore(cfg config.RedisConfig, snap config.SnapshotConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		key:    snap.Key,
		ttl:    snap.TTL,
	}, nil
}

func (s *RedisStore) Load(ctx context.Context) ([]domain.CoachRecord, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to get snapshot from redis: %w", err)
	}

	records, _, err := Decode(data)
	return records, err
}

func (s *RedisStore) Save(ctx context.Context, records []domain.CoachRecord) error {
	data, err := Encode(records, time.Now())
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot in redis: %w", err)
	}

	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
