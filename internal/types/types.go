// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package types

import (
	"vaultpnl/pkg/analytics"
	"vaultpnl/pkg/chain"
)

type NetworksResponse struct {
	Networks []chain.Network `json:"networks"`
}

type VaultPnlRequest struct {
	VaultAddress string `form:"vault_address"`
	NetworkID    int    `form:"network_id"`
	StartDate    string `form:"start_date,optional"`
	EndDate      string `form:"end_date,optional"`
	FullHistory  bool   `form:"full_history,optional"`
}

type BoundaryPoint struct {
	Timestamp      int64    `json:"timestamp"`
	Label          string   `json:"label"`
	SharePriceUSD  *float64 `json:"share_price_usd,omitempty"`
	TotalAssetsUSD *float64 `json:"total_assets_usd,omitempty"`
}

type PnlSummary struct {
	Start         BoundaryPoint `json:"start"`
	End           BoundaryPoint `json:"end"`
	PnLDecimal    float64       `json:"pnl_decimal"`
	PnLLabel      string        `json:"pnl_label"`
	IsFullHistory bool          `json:"is_full_history"`
}

type ChartPoint struct {
	Timestamp      int64    `json:"timestamp"` // milliseconds
	Value          *float64 `json:"value"`
	TotalAssetsUSD *float64 `json:"total_assets_usd,omitempty"`
}

type VaultSummary struct {
	Name            string   `json:"name"`
	Symbol          string   `json:"symbol"`
	Address         string   `json:"address"`
	Network         string   `json:"network,omitempty"`
	AssetSymbol     string   `json:"asset_symbol"`
	AssetName       string   `json:"asset_name"`
	Description     string   `json:"description,omitempty"`
	Whitelisted     bool     `json:"whitelisted"`
	Promoted        bool     `json:"promoted"`
	TVL             string   `json:"tvl"`
	RawTVL          *float64 `json:"raw_tvl,omitempty"`
	APY             *float64 `json:"apy,omitempty"`
	NetAPY          *float64 `json:"net_apy,omitempty"`
	Fee             *float64 `json:"fee,omitempty"`
	SharePrice      *float64 `json:"share_price,omitempty"`
	SharePriceLabel string   `json:"share_price_label"`
	CashRatio       *float64 `json:"cash_ratio,omitempty"`
	Curator         string   `json:"curator,omitempty"`
	Guardian        string   `json:"guardian,omitempty"`
	Owner           string   `json:"owner,omitempty"`
}

type CompositionRow struct {
	analytics.CompositionRow
	TVL          string `json:"tvl"`
	PercentLabel string `json:"percent_label"`
}

type VaultPnlResponse struct {
	VaultAddress string                 `json:"vault_address"`
	NetworkID    int                    `json:"network_id"`
	Network      string                 `json:"network,omitempty"`
	StartDate    string                 `json:"start_date"`
	EndDate      string                 `json:"end_date"`
	Summary      PnlSummary             `json:"summary"`
	ChartPoints  []ChartPoint           `json:"chart_points"`
	Performance  *analytics.Performance `json:"performance,omitempty"`
	TVLWindow    *analytics.TVLWindow   `json:"tvl_window,omitempty"`
	Vault        *VaultSummary          `json:"vault,omitempty"`
	VaultError   string                 `json:"vault_error,omitempty"`
	Composition  []CompositionRow       `json:"composition"`
	Warnings     []string               `json:"warnings"`
	MorphoURL    string                 `json:"morpho_url,omitempty"`
	EmbedURL     string                 `json:"embed_url,omitempty"`
}

type CuratorRequest struct {
	Curator string `form:"curator"`
}

type CuratorAddress struct {
	ChainID int    `json:"chain_id"`
	Address string `json:"address"`
}

type CuratorProfile struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Verified    bool             `json:"verified"`
	Addresses   []CuratorAddress `json:"addresses"`
}

type CuratorVault struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Whitelisted    bool     `json:"whitelisted"`
	ChainID        int      `json:"chain_id"`
	Network        string   `json:"network"`
	AssetSymbol    string   `json:"asset_symbol"`
	TotalAssetsUSD *float64 `json:"total_assets_usd,omitempty"`
	DisplayTVL     string   `json:"display_tvl"`
	PnL30d         string   `json:"pnl_30d"`
	TVLChange30d   string   `json:"tvl_change_30d"`
	TVLPct30d      string   `json:"tvl_pct_30d"`
	MetricsCached  bool     `json:"metrics_cached"`
}

type CuratorResponse struct {
	Curator CuratorProfile `json:"curator"`
	Vaults  []CuratorVault `json:"vaults"`
}

type ProxyRequest struct {
	Network string `form:"network"`
	Address string `form:"address"`
}
