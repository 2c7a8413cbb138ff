// Package metricscache memoizes per-vault trailing metrics in hour buckets so a
// listing of many vaults can be annotated without refetching each series.
package metricscache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/syncx"

	"vaultpnl/pkg/format"
)

// Defaults applied by New.
const (
	DefaultTTL    = 1800 * time.Second
	DefaultBucket = 3600 * time.Second
)

// Metrics holds the display labels of one vault.
type Metrics struct {
	PnL30d       string `json:"pnl_30d" msgpack:"pnl_30d"`
	TVLChange30d string `json:"tvl_change_30d" msgpack:"tvl_change_30d"`
	TVLPct30d    string `json:"tvl_pct_30d" msgpack:"tvl_pct_30d"`
}

// Unavailable returns Metrics with every label set to format.NotAvailable.
func Unavailable() Metrics {
	return Metrics{
		PnL30d:       format.NotAvailable,
		TVLChange30d: format.NotAvailable,
		TVLPct30d:    format.NotAvailable,
	}
}

// Outcome is the best-effort result of a lookup. Metrics is always
// displayable; Available is false when the labels are sentinels standing in
// for a suppressed failure, with Reason describing it.
type Outcome struct {
	Metrics   Metrics
	Available bool
	Reason    string
	Cached    bool
}

// Key identifies a cache entry. Timestamps are reduced to bucket indexes.
type Key struct {
	Address     string `msgpack:"address"`
	ChainID     int    `msgpack:"chain_id"`
	StartBucket int64  `msgpack:"start_bucket"`
	EndBucket   int64  `msgpack:"end_bucket"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d:%d:%d", k.Address, k.ChainID, k.StartBucket, k.EndBucket)
}

// NewKey lowercases the address and buckets both timestamps.
func NewKey(address string, chainID int, startTS, endTS int64, bucket time.Duration) Key {
	size := int64(bucket / time.Second)
	if size <= 0 {
		size = int64(DefaultBucket / time.Second)
	}
	return Key{
		Address:     strings.ToLower(strings.TrimSpace(address)),
		ChainID:     chainID,
		StartBucket: startTS / size,
		EndBucket:   endTS / size,
	}
}

// Entry is a stored computation.
type Entry struct {
	Key        Key     `msgpack:"key"`
	ComputedAt int64   `msgpack:"computed_at"`
	Metrics    Metrics `msgpack:"metrics"`
}

// Store persists entries. Get returns nil without error on a miss.
type Store interface {
	Get(ctx context.Context, key Key) (*Entry, error)
	Put(ctx context.Context, entry Entry) error
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Computer fetches and derives the metrics of one vault over [startTS, endTS].
type Computer func(ctx context.Context, address string, chainID int, startTS, endTS int64) (Metrics, error)

// Cache serves Metrics from a Store, recomputing stale or missing entries.
type Cache struct {
	compute Computer
	store   Store
	clock   Clock
	ttl     time.Duration
	bucket  time.Duration
	flight  syncx.SingleFlight
}

// Option configures a Cache.
type Option func(*Cache)

// WithStore replaces the default in-memory store.
func WithStore(store Store) Option {
	return func(c *Cache) {
		if store != nil {
			c.store = store
		}
	}
}

// WithClock injects the time source.
func WithClock(clock Clock) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithTTL sets how long an entry is served after computation.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithBucket sets the timestamp bucket width used in keys.
func WithBucket(bucket time.Duration) Option {
	return func(c *Cache) {
		if bucket >= time.Second {
			c.bucket = bucket
		}
	}
}

// New builds a Cache around compute.
func New(compute Computer, opts ...Option) *Cache {
	c := &Cache{
		compute: compute,
		store:   NewMemoryStore(),
		clock:   ClockFunc(time.Now),
		ttl:     DefaultTTL,
		bucket:  DefaultBucket,
		flight:  syncx.NewSingleFlight(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the metrics of a vault over [startTS, endTS]. Failures never
// surface as errors; they yield sentinel labels with Available=false.
func (c *Cache) Get(ctx context.Context, address string, chainID int, startTS, endTS int64) Outcome {
	key := NewKey(address, chainID, startTS, endTS, c.bucket)
	logger := logx.WithContext(ctx)

	entry, err := c.store.Get(ctx, key)
	if err != nil {
		logger.Errorf("metricscache: store get key=%s err=%v", key, err)
	} else if entry != nil && c.fresh(entry) {
		return Outcome{Metrics: entry.Metrics, Available: true, Cached: true}
	}

	v, err := c.flight.Do(key.String(), func() (any, error) {
		metrics, err := c.safeCompute(ctx, address, chainID, startTS, endTS)
		if err != nil {
			return nil, err
		}
		fresh := Entry{Key: key, ComputedAt: c.clock.Now().Unix(), Metrics: metrics}
		if err := c.store.Put(ctx, fresh); err != nil {
			logger.Errorf("metricscache: store put key=%s err=%v", key, err)
		}
		return metrics, nil
	})
	if err != nil {
		logger.Errorf("metricscache: compute vault=%s chain=%d err=%v", key.Address, chainID, err)
		return Outcome{Metrics: Unavailable(), Reason: err.Error()}
	}
	return Outcome{Metrics: v.(Metrics), Available: true}
}

func (c *Cache) fresh(entry *Entry) bool {
	age := c.clock.Now().Unix() - entry.ComputedAt
	return age < int64(c.ttl/time.Second)
}

func (c *Cache) safeCompute(ctx context.Context, address string, chainID int, startTS, endTS int64) (metrics Metrics, err error) {
	if c.compute == nil {
		return Metrics{}, fmt.Errorf("metricscache: no computer configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("metricscache: compute panic: %v", r)
		}
	}()
	return c.compute(ctx, address, chainID, startTS, endTS)
}
