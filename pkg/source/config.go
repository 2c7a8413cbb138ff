// Package source describes upstream vault data providers and how they are configured.
package source

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"vaultpnl/pkg/confkit"
)

// Config describes the data providers available to the application.
type Config struct {
	Default string `yaml:"default"`
	// Series optionally names the provider used for historical series; defaults to Default.
	Series    string                     `yaml:"series"`
	Providers map[string]*ProviderConfig `yaml:"providers"`
}

// ProviderConfig represents configuration for a single provider.
type ProviderConfig struct {
	Type string `yaml:"type"`

	BaseURL  string `yaml:"base_url"`
	SiteURL  string `yaml:"site_url"`
	Interval string `yaml:"interval"`
	DSN      string `yaml:"dsn"`

	TimeoutRaw     string        `yaml:"timeout"`
	Timeout        time.Duration `yaml:"-"`
	HTTPTimeoutRaw string        `yaml:"http_timeout"`
	HTTPTimeout    time.Duration `yaml:"-"`
	MaxRetries     int           `yaml:"max_retries"`
}

// ProviderBuilder constructs a Provider from configuration.
type ProviderBuilder func(name string, cfg *ProviderConfig) (Provider, error)

var (
	providerRegistry   = make(map[string]ProviderBuilder)
	providerRegistryMu sync.RWMutex
)

// RegisterProvider registers a provider constructor under a type name.
func RegisterProvider(typeName string, builder ProviderBuilder) {
	providerRegistryMu.Lock()
	defer providerRegistryMu.Unlock()
	providerRegistry[strings.ToLower(strings.TrimSpace(typeName))] = builder
}

func lookupProviderBuilder(typeName string) (ProviderBuilder, bool) {
	providerRegistryMu.RLock()
	defer providerRegistryMu.RUnlock()
	builder, ok := providerRegistry[strings.ToLower(strings.TrimSpace(typeName))]
	return builder, ok
}

// LoadConfig reads configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	confkit.LoadDotenvOnce()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read source config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal source config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() error {
	c.Default = strings.TrimSpace(c.Default)
	c.Series = strings.TrimSpace(c.Series)
	if c.Providers == nil {
		c.Providers = make(map[string]*ProviderConfig)
	}
	for name, provider := range c.Providers {
		if provider == nil {
			provider = &ProviderConfig{}
			c.Providers[name] = provider
		}
		provider.expandEnv()
		if err := provider.parseDurations(name); err != nil {
			return err
		}
	}
	if c.Default == "" && len(c.Providers) == 1 {
		for name := range c.Providers {
			c.Default = name
		}
	}
	return nil
}

func (p *ProviderConfig) expandEnv() {
	p.Type = strings.TrimSpace(os.ExpandEnv(p.Type))
	p.BaseURL = strings.TrimSpace(os.ExpandEnv(p.BaseURL))
	p.SiteURL = strings.TrimSpace(os.ExpandEnv(p.SiteURL))
	p.Interval = strings.ToUpper(strings.TrimSpace(os.ExpandEnv(p.Interval)))
	p.DSN = strings.TrimSpace(os.ExpandEnv(p.DSN))
	p.TimeoutRaw = strings.TrimSpace(os.ExpandEnv(p.TimeoutRaw))
	p.HTTPTimeoutRaw = strings.TrimSpace(os.ExpandEnv(p.HTTPTimeoutRaw))
}

func (p *ProviderConfig) parseDurations(name string) error {
	var err error
	if p.Timeout, err = parsePositiveDuration(name, "timeout", p.TimeoutRaw); err != nil {
		return err
	}
	if p.HTTPTimeout, err = parsePositiveDuration(name, "http_timeout", p.HTTPTimeoutRaw); err != nil {
		return err
	}
	return nil
}

func parsePositiveDuration(provider, field, raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("source provider %s: invalid %s %q: %w", provider, field, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("source provider %s: %s must be positive, got %s", provider, field, d)
	}
	return d, nil
}

// Validate ensures the configuration is structurally sound.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("source config: providers cannot be empty")
	}
	if c.Default == "" {
		return fmt.Errorf("source config: default provider is required")
	}
	if _, ok := c.Providers[c.Default]; !ok {
		return fmt.Errorf("source config: default provider %q not defined", c.Default)
	}
	if c.Series != "" {
		if _, ok := c.Providers[c.Series]; !ok {
			return fmt.Errorf("source config: series provider %q not defined", c.Series)
		}
	}
	for name, provider := range c.Providers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("source config: provider name cannot be empty")
		}
		if err := provider.validate(name); err != nil {
			return err
		}
	}
	return nil
}

func (p *ProviderConfig) validate(name string) error {
	if strings.TrimSpace(p.Type) == "" {
		return fmt.Errorf("source config: provider %s must specify type", name)
	}
	if _, ok := lookupProviderBuilder(p.Type); !ok {
		return fmt.Errorf("source config: provider %s has unsupported type %q", name, p.Type)
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("source config: provider %s max_retries cannot be negative", name)
	}
	return nil
}

// BuildProviders instantiates providers according to configuration.
func (c *Config) BuildProviders() (map[string]Provider, error) {
	result := make(map[string]Provider, len(c.Providers))
	for name, providerCfg := range c.Providers {
		builder, ok := lookupProviderBuilder(providerCfg.Type)
		if !ok {
			return nil, fmt.Errorf("source provider %s: unsupported type %q", name, providerCfg.Type)
		}
		provider, err := builder(name, providerCfg)
		if err != nil {
			return nil, fmt.Errorf("source provider %s: %w", name, err)
		}
		result[name] = provider
	}
	return result, nil
}

// SeriesProviderName returns the provider used for historical series.
func (c *Config) SeriesProviderName() string {
	if c.Series != "" {
		return c.Series
	}
	return c.Default
}

// Build instantiates every provider and returns the default one with series
// requests routed to the configured series provider.
func (c *Config) Build() (Provider, map[string]Provider, error) {
	providers, err := c.BuildProviders()
	if err != nil {
		return nil, nil, err
	}
	base, ok := providers[c.Default]
	if !ok {
		return nil, nil, fmt.Errorf("source config: default provider %q not built", c.Default)
	}
	return Route(base, providers[c.SeriesProviderName()]), providers, nil
}
