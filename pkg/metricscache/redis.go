package metricscache

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

// RedisStore shares entries between processes through Redis. Keys expire
// after the configured retention; freshness is still decided by Cache.
type RedisStore struct {
	client    *redis.Redis
	retention time.Duration
	keyFunc   func(Key) string
}

// NewRedisStore builds a RedisStore. keyFunc maps entries to Redis keys and
// defaults to "metricscache:<address>:<chain>:<start>:<end>".
func NewRedisStore(client *redis.Redis, retention time.Duration, keyFunc func(Key) string) *RedisStore {
	if keyFunc == nil {
		keyFunc = func(k Key) string { return "metricscache:" + k.String() }
	}
	return &RedisStore{client: client, retention: retention, keyFunc: keyFunc}
}

func (s *RedisStore) Get(ctx context.Context, key Key) (*Entry, error) {
	raw, err := s.client.GetCtx(ctx, s.keyFunc(key))
	if err != nil {
		return nil, fmt.Errorf("metricscache: redis get: %w", err)
	}
	if raw == "" {
		return nil, nil
	}
	var entry Entry
	if err := msgpack.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("metricscache: decode entry: %w", err)
	}
	return &entry, nil
}

func (s *RedisStore) Put(ctx context.Context, entry Entry) error {
	payload, err := msgpack.Marshal(entry)
	if err != nil {
		return fmt.Errorf("metricscache: encode entry: %w", err)
	}
	seconds := int(s.retention / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	if err := s.client.SetexCtx(ctx, s.keyFunc(entry.Key), string(payload), seconds); err != nil {
		return fmt.Errorf("metricscache: redis set: %w", err)
	}
	return nil
}
