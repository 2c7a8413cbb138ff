package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/rest"

	"vaultpnl/pkg/confkit"
	"vaultpnl/pkg/source"
)

const defaultSourceFile = "source.yaml"

// MetricsConf controls the curator listing metrics cache.
type MetricsConf struct {
	TTL        int `json:",default=1800"` // seconds an entry is served
	Bucket     int `json:",default=3600"` // seconds per timestamp bucket
	WindowDays int `json:",default=30"`
}

type Config struct {
	rest.RestConf
	// Env indicates the running environment: test | dev | prod
	Env               string `json:",default=test"`
	DefaultRangeDays  int    `json:",default=30"`
	CuratorVaultLimit int    `json:",default=50"`
	EmbedCacheSeconds int    `json:",default=300"`

	Metrics MetricsConf     `json:",optional"`
	Redis   redis.RedisConf `json:",optional"`

	// Source defaults to source.yaml next to the main file.
	Source confkit.Section[source.Config] `json:",optional"`

	mainPath string
	baseDir  string
}

func (c *Config) IsTestEnv() bool {
	return c.Env == "test" || c.Env == ""
}

// RedisEnabled reports whether a shared Redis store is configured.
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.Host) != ""
}

func (c *Config) MetricsTTL() time.Duration {
	return time.Duration(c.Metrics.TTL) * time.Second
}

func (c *Config) MetricsBucket() time.Duration {
	return time.Duration(c.Metrics.Bucket) * time.Second
}

func (c *Config) EmbedCacheTTL() time.Duration {
	return time.Duration(c.EmbedCacheSeconds) * time.Second
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	var cfg Config
	if err := conf.Load(absPath, &cfg, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", absPath, err)
	}

	cfg.mainPath = absPath
	cfg.baseDir = filepath.Dir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.hydrateSections(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fills zero values with defaults and rejects invalid settings.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "", "test", "dev", "prod":
		if strings.TrimSpace(c.Env) == "" {
			c.Env = "test"
		}
	default:
		return errors.New("config: env must be one of test|dev|prod")
	}
	c.applyDefaults()
	if c.DefaultRangeDays < 0 {
		return errors.New("config: defaultRangeDays cannot be negative")
	}
	if c.CuratorVaultLimit < 0 {
		return errors.New("config: curatorVaultLimit cannot be negative")
	}
	if c.EmbedCacheSeconds < 0 {
		return errors.New("config: embedCacheSeconds cannot be negative")
	}
	return c.validateMetrics()
}

func (c *Config) applyDefaults() {
	if c.DefaultRangeDays == 0 {
		c.DefaultRangeDays = 30
	}
	if c.CuratorVaultLimit == 0 {
		c.CuratorVaultLimit = 50
	}
	if c.Metrics.TTL == 0 {
		c.Metrics.TTL = 1800
	}
	if c.Metrics.Bucket == 0 {
		c.Metrics.Bucket = 3600
	}
	if c.Metrics.WindowDays == 0 {
		c.Metrics.WindowDays = 30
	}
}

func (c *Config) validateMetrics() error {
	if c.Metrics.TTL <= 0 {
		return errors.New("config: metrics.ttl must be positive")
	}
	if c.Metrics.Bucket <= 0 {
		return errors.New("config: metrics.bucket must be positive")
	}
	if c.Metrics.WindowDays <= 0 {
		return errors.New("config: metrics.windowDays must be positive")
	}
	return nil
}

func (c *Config) hydrateSections() error {
	if err := c.Source.HydrateOr(c.baseDir, defaultSourceFile, source.LoadConfig); err != nil {
		return fmt.Errorf("load source config: %w", err)
	}
	return nil
}

func (c *Config) MainPath() string {
	return c.mainPath
}

func (c *Config) BaseDir() string {
	return c.baseDir
}
