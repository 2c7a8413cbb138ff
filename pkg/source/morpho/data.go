package morpho

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"vaultpnl/pkg/analytics"
	"vaultpnl/pkg/chain"
	"vaultpnl/pkg/source"
)

const defaultCuratorVaultLimit = 50

// GetSeries fetches the share price and total assets history of a vault and
// merges both timeseries by timestamp. Nil bounds select the whole history.
func (c *Client) GetSeries(ctx context.Context, address string, chainID int, start, end *int64) ([]analytics.Point, error) {
	options := map[string]any{}
	if start != nil {
		options["startTimestamp"] = *start
	}
	if end != nil {
		options["endTimestamp"] = *end
	}
	if c.interval != "" {
		options["interval"] = c.interval
	}
	variables := map[string]any{
		"address": address,
		"chainId": chainID,
		"options": nil,
	}
	if len(options) > 0 {
		variables["options"] = options
	}

	var resp vaultHistoryResponse
	if err := c.query(ctx, vaultHistoryQuery, variables, &resp); err != nil {
		return nil, err
	}
	if resp.VaultByAddress == nil {
		return nil, source.ErrVaultNotFound
	}
	hist := resp.VaultByAddress.HistoricalState
	if hist == nil || hist.SharePriceUSD == nil {
		return nil, source.ErrNoHistory
	}
	return mergeSeries(hist.SharePriceUSD, hist.TotalAssetsUSD), nil
}

func mergeSeries(prices, assets []seriesPoint) []analytics.Point {
	byTS := make(map[int64]*analytics.Point, len(prices))
	order := make([]int64, 0, len(prices))
	at := func(x float64) *analytics.Point {
		ts := int64(x)
		p, ok := byTS[ts]
		if !ok {
			p = &analytics.Point{Timestamp: ts}
			byTS[ts] = p
			order = append(order, ts)
		}
		return p
	}
	for _, sp := range prices {
		at(sp.X).SharePriceUSD = sp.Y
	}
	for _, sp := range assets {
		at(sp.X).TotalAssetsUSD = sp.Y
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]analytics.Point, 0, len(order))
	for _, ts := range order {
		out = append(out, *byTS[ts])
	}
	return out
}

// GetVault fetches the current state and allocation of a vault. It returns
// nil without error when the vault is unknown.
func (c *Client) GetVault(ctx context.Context, address string, chainID int) (*source.Vault, error) {
	var resp vaultDetailsResponse
	variables := map[string]any{"address": address, "chainId": chainID}
	if err := c.query(ctx, vaultDetailsQuery, variables, &resp); err != nil {
		return nil, err
	}
	if resp.VaultByAddress == nil {
		return nil, nil
	}
	return toVault(resp.VaultByAddress, chainID), nil
}

func toVault(raw *vaultPayload, chainID int) *source.Vault {
	v := &source.Vault{
		Address:     raw.Address,
		Name:        raw.Name,
		Symbol:      raw.Symbol,
		ChainID:     chainID,
		Whitelisted: raw.Whitelisted,
		Promoted:    raw.Promoted,
	}
	if raw.Chain != nil && raw.Chain.ID != 0 {
		v.ChainID = raw.Chain.ID
	}
	if raw.Metadata != nil {
		v.Description = raw.Metadata.Description
		v.Image = raw.Metadata.Image
	}
	if raw.Asset != nil {
		v.AssetSymbol = raw.Asset.Symbol
		v.AssetName = raw.Asset.Name
		v.AssetDecimals = raw.Asset.Decimals
	}
	if raw.State == nil {
		return v
	}
	st := raw.State
	v.TotalAssetsUSD = st.TotalAssetsUSD
	v.TotalAssets = st.TotalAssets
	v.SharePriceUSD = st.SharePriceUSD
	v.APY = st.APY
	v.NetAPY = st.NetAPY
	v.Fee = st.Fee
	v.Curator = st.Curator
	v.FeeRecipient = st.FeeRecipient
	v.Guardian = st.Guardian
	v.Owner = st.Owner
	for _, a := range st.Allocation {
		alloc := analytics.Allocation{
			SupplyUSD:    a.SupplyAssetsUSD,
			SupplyCapUSD: a.SupplyCapUSD,
			Enabled:      a.Enabled,
		}
		if m := a.Market; m != nil {
			alloc.MarketKey = m.UniqueKey
			if m.LoanAsset != nil {
				alloc.LoanAsset = m.LoanAsset.Symbol
			}
			if m.CollateralAsset != nil {
				alloc.CollateralAsset = m.CollateralAsset.Symbol
			}
			if m.State != nil {
				alloc.Utilization = m.State.Utilization
			}
		}
		v.Allocations = append(v.Allocations, alloc)
	}
	return v
}

// ResolveCurator looks a curator up by slug (e.g. "9summits") and, failing
// that or when the query is an address, by one of its addresses.
func (c *Client) ResolveCurator(ctx context.Context, query string) (*source.Curator, error) {
	normalized := strings.TrimSpace(query)
	if normalized == "" {
		return nil, nil
	}
	if !chain.LooksLikeAddress(normalized) {
		curator, err := c.curatorByID(ctx, normalized)
		if err != nil {
			var gqlErr *GraphQLError
			if !errors.As(err, &gqlErr) {
				return nil, err
			}
		}
		if curator != nil {
			return curator, nil
		}
	}
	return c.curatorByAddress(ctx, normalized)
}

func (c *Client) curatorByID(ctx context.Context, id string) (*source.Curator, error) {
	var resp curatorByIDResponse
	if err := c.query(ctx, curatorByIDQuery, map[string]any{"curatorId": id}, &resp); err != nil {
		return nil, err
	}
	if resp.Curator == nil {
		return nil, nil
	}
	return toCurator(*resp.Curator), nil
}

func (c *Client) curatorByAddress(ctx context.Context, address string) (*source.Curator, error) {
	var resp curatorByAddressResponse
	if err := c.query(ctx, curatorByAddressQuery, map[string]any{"address": address}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Curators.Items) == 0 {
		return nil, nil
	}
	return toCurator(resp.Curators.Items[0]), nil
}

func toCurator(raw curatorPayload) *source.Curator {
	cur := &source.Curator{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Verified:    raw.Verified,
	}
	for _, a := range raw.Addresses {
		cur.Addresses = append(cur.Addresses, source.CuratorAddress{ChainID: a.ChainID, Address: a.Address})
	}
	return cur
}

// GetCuratorVaults lists up to limit vaults managed by the curator.
func (c *Client) GetCuratorVaults(ctx context.Context, curatorID string, limit int) ([]source.VaultListing, error) {
	if strings.TrimSpace(curatorID) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultCuratorVaultLimit
	}
	var resp curatorVaultsResponse
	variables := map[string]any{"curatorId": curatorID, "first": limit}
	if err := c.query(ctx, curatorVaultsQuery, variables, &resp); err != nil {
		return nil, fmt.Errorf("morpho: curator vaults %s: %w", curatorID, err)
	}
	out := make([]source.VaultListing, 0, len(resp.Vaults.Items))
	for _, item := range resp.Vaults.Items {
		listing := source.VaultListing{
			ID:          item.ID,
			Name:        item.Name,
			Address:     item.Address,
			Whitelisted: item.Whitelisted,
		}
		if item.Chain != nil {
			listing.ChainID = item.Chain.ID
		}
		if item.Asset != nil {
			listing.AssetSymbol = item.Asset.Symbol
		}
		if item.State != nil {
			listing.TotalAssetsUSD = item.State.TotalAssetsUSD
		}
		out = append(out, listing)
	}
	return out, nil
}
