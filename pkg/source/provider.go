package source

import (
	"context"
	"errors"

	"vaultpnl/pkg/analytics"
)

var (
	// ErrVaultNotFound indicates the provider has no vault for the address / chain pair.
	ErrVaultNotFound = errors.New("source: vault not found for given address / chainId")
	// ErrNoHistory indicates the vault exists but exposes no historical series.
	ErrNoHistory = errors.New("source: no historical share price data available for this vault")
	// ErrUnsupported is returned by providers that only serve part of the contract.
	ErrUnsupported = errors.New("source: operation not supported by provider")
)

// SeriesSource serves historical vault series.
type SeriesSource interface {
	// Series returns points sorted by timestamp. Nil bounds select the whole history.
	Series(ctx context.Context, address string, chainID int, start, end *int64) ([]analytics.Point, error)
}

// Provider exposes vault data from an upstream data source.
type Provider interface {
	SeriesSource
	// Vault returns the current state of a vault, or nil when unknown.
	Vault(ctx context.Context, address string, chainID int) (*Vault, error)
	// Curator resolves a curator by slug or by one of its addresses; nil when unknown.
	Curator(ctx context.Context, query string) (*Curator, error)
	// CuratorVaults lists vaults managed by a curator.
	CuratorVaults(ctx context.Context, curatorID string, limit int) ([]VaultListing, error)
}

// Vault captures the current state of a vault.
type Vault struct {
	Address        string
	Name           string
	Symbol         string
	ChainID        int
	Whitelisted    bool
	Promoted       bool
	Description    string
	Image          string
	AssetSymbol    string
	AssetName      string
	AssetDecimals  int
	TotalAssetsUSD *float64
	TotalAssets    *float64
	SharePriceUSD  *float64
	APY            *float64
	NetAPY         *float64
	Fee            *float64
	Curator        string
	FeeRecipient   string
	Guardian       string
	Owner          string
	Allocations    []analytics.Allocation
}

// Curator describes a vault curator.
type Curator struct {
	ID          string
	Name        string
	Description string
	Verified    bool
	Addresses   []CuratorAddress
}

// CuratorAddress is one on-chain address of a curator.
type CuratorAddress struct {
	ChainID int
	Address string
}

// VaultListing is a vault row in a curator listing.
type VaultListing struct {
	ID             string
	Name           string
	Address        string
	Whitelisted    bool
	ChainID        int
	AssetSymbol    string
	TotalAssetsUSD *float64
}

// Route returns a Provider that serves Series from series and everything else from base.
func Route(base Provider, series SeriesSource) Provider {
	if series == nil || series == SeriesSource(base) {
		return base
	}
	return &routed{Provider: base, series: series}
}

type routed struct {
	Provider
	series SeriesSource
}

func (r *routed) Series(ctx context.Context, address string, chainID int, start, end *int64) ([]analytics.Point, error) {
	return r.series.Series(ctx, address, chainID, start, end)
}
