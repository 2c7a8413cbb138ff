package morpho

import (
	"context"
	"net/http"
	"strings"
	"time"

	"vaultpnl/pkg/analytics"
	"vaultpnl/pkg/source"
)

const defaultProviderTimeout = 30 * time.Second

// Provider wraps Client calls behind the generic source.Provider contract.
type Provider struct {
	client     *Client
	timeout    time.Duration
	siteURL    string
	providerID string
}

type providerConfig struct {
	timeout      time.Duration
	siteURL      string
	clientConfig []Option
}

// ProviderOption customises the Morpho provider.
type ProviderOption func(*providerConfig)

// WithTimeout overrides the default per-call timeout.
func WithTimeout(timeout time.Duration) ProviderOption {
	return func(cfg *providerConfig) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

// WithSiteURL overrides the Morpho app URL used for vault links.
func WithSiteURL(url string) ProviderOption {
	return func(cfg *providerConfig) {
		if url = strings.TrimSpace(url); url != "" {
			if !strings.HasSuffix(url, "/") {
				url += "/"
			}
			cfg.siteURL = url
		}
	}
}

// WithClientOptions passes options to the underlying client.
func WithClientOptions(options ...Option) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.clientConfig = append(cfg.clientConfig, options...)
	}
}

// NewProvider constructs a Morpho provider.
func NewProvider(opts ...ProviderOption) *Provider {
	cfg := &providerConfig{
		timeout: defaultProviderTimeout,
		siteURL: DefaultSiteURL,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Provider{
		client:  NewClient(cfg.clientConfig...),
		timeout: cfg.timeout,
		siteURL: cfg.siteURL,
	}
}

func init() {
	source.RegisterProvider("morpho", func(name string, cfg *source.ProviderConfig) (source.Provider, error) {
		opts := []ProviderOption{WithSiteURL(cfg.SiteURL)}
		clientOptions := []Option{WithBaseURL(cfg.BaseURL), WithInterval(cfg.Interval)}
		if cfg.Timeout > 0 {
			opts = append(opts, WithTimeout(cfg.Timeout))
		}
		if cfg.HTTPTimeout > 0 {
			clientOptions = append(clientOptions, WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		}
		if cfg.MaxRetries > 0 {
			clientOptions = append(clientOptions, WithMaxRetries(cfg.MaxRetries))
		}
		opts = append(opts, WithClientOptions(clientOptions...))
		provider := NewProvider(opts...)
		provider.providerID = name
		return provider, nil
	})
}

// Series implements source.Provider.
func (p *Provider) Series(ctx context.Context, address string, chainID int, start, end *int64) ([]analytics.Point, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.client.GetSeries(ctx, address, chainID, start, end)
}

// Vault implements source.Provider.
func (p *Provider) Vault(ctx context.Context, address string, chainID int) (*source.Vault, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.client.GetVault(ctx, address, chainID)
}

// Curator implements source.Provider.
func (p *Provider) Curator(ctx context.Context, query string) (*source.Curator, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.client.ResolveCurator(ctx, query)
}

// CuratorVaults implements source.Provider.
func (p *Provider) CuratorVaults(ctx context.Context, curatorID string, limit int) ([]source.VaultListing, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.client.GetCuratorVaults(ctx, curatorID, limit)
}

// SiteURL returns the Morpho app base URL, always ending in "/".
func (p *Provider) SiteURL() string {
	return p.siteURL
}

// Name returns the configured provider name.
func (p *Provider) Name() string {
	if strings.TrimSpace(p.providerID) != "" {
		return p.providerID
	}
	return "morpho"
}

func (p *Provider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, p.timeout)
}
