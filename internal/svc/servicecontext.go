package svc

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/zeromicro/go-zero/core/collection"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"

	"vaultpnl/internal/cache"
	"vaultpnl/internal/config"
	"vaultpnl/pkg/embed"
	"vaultpnl/pkg/metricscache"
	"vaultpnl/pkg/source"
	"vaultpnl/pkg/source/morpho"
	_ "vaultpnl/pkg/source/postgres"
)

const embedHTTPTimeout = 30 * time.Second

type ServiceContext struct {
	Config config.Config

	Source    source.Provider
	Providers map[string]source.Provider
	SiteURL   string

	Metrics    *metricscache.Cache
	Embed      *embed.Fetcher
	ChartCache *collection.Cache
	EmbedCache *collection.Cache
	TTL        cache.TTLSet

	Now func() time.Time
}

// siteURLer is implemented by providers that know the public app URL.
type siteURLer interface {
	SiteURL() string
}

// NewServiceContext builds providers from the source section and wires the
// caches. Configuration errors are fatal.
func NewServiceContext(c config.Config) *ServiceContext {
	if c.Source.Value == nil {
		log.Fatalf("source config is not loaded")
	}
	provider, providers, err := c.Source.Value.Build()
	if err != nil {
		log.Fatalf("build source providers: %v", err)
	}
	svc, err := NewWithProvider(c, provider)
	if err != nil {
		log.Fatalf("build service context: %v", err)
	}
	svc.Providers = providers
	return svc
}

// NewWithProvider wires a ServiceContext around an already built provider.
func NewWithProvider(c config.Config, provider source.Provider) (*ServiceContext, error) {
	ttl := cache.NewTTLSet(c)
	svc := &ServiceContext{
		Config:    c,
		Source:    provider,
		Providers: map[string]source.Provider{},
		SiteURL:   morpho.DefaultSiteURL,
		TTL:       ttl,
		Now:       time.Now,
	}
	if s, ok := provider.(siteURLer); ok && s.SiteURL() != "" {
		svc.SiteURL = s.SiteURL()
	}

	opts := []metricscache.Option{
		metricscache.WithTTL(ttl.Duration(cache.TTLMetrics)),
		metricscache.WithBucket(c.MetricsBucket()),
	}
	if c.RedisEnabled() {
		rds := redis.MustNewRedis(c.Redis)
		opts = append(opts, metricscache.WithStore(
			metricscache.NewRedisStore(rds, ttl.Scaled(cache.TTLMetrics, 2), cache.VaultMetricsKey)))
		logx.Infof("svc: metrics cache backed by redis host=%s", c.Redis.Host)
	}
	svc.Metrics = metricscache.New(metricscache.NewSeriesComputer(provider, c.Metrics.WindowDays), opts...)

	svc.Embed = embed.NewFetcher(svc.SiteURL, &http.Client{Timeout: embedHTTPTimeout})

	var err error
	if svc.ChartCache, err = newMemo("chart", ttl.Duration(cache.TTLChart)); err != nil {
		return nil, err
	}
	if svc.EmbedCache, err = newMemo("embed", ttl.Duration(cache.TTLEmbed)); err != nil {
		return nil, err
	}
	return svc, nil
}

// newMemo returns nil when ttl disables caching.
func newMemo(name string, ttl time.Duration) (*collection.Cache, error) {
	if ttl <= 0 {
		return nil, nil
	}
	memo, err := collection.NewCache(ttl, collection.WithName(name), collection.WithLimit(512))
	if err != nil {
		return nil, fmt.Errorf("create %s cache: %w", name, err)
	}
	return memo, nil
}

// Memoize serves key from memo, calling fetch on a miss. A nil memo always fetches.
func Memoize[T any](memo *collection.Cache, key string, fetch func() (T, error)) (T, error) {
	if memo == nil {
		return fetch()
	}
	v, err := memo.Take(key, func() (any, error) { return fetch() })
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
