package morpho

// seriesPoint is one {x, y} sample of a Morpho timeseries.
type seriesPoint struct {
	X float64  `json:"x"`
	Y *float64 `json:"y"`
}

type vaultHistoryResponse struct {
	VaultByAddress *struct {
		Address         string `json:"address"`
		Name            string `json:"name"`
		HistoricalState *struct {
			SharePriceUSD  []seriesPoint `json:"sharePriceUsd"`
			TotalAssetsUSD []seriesPoint `json:"totalAssetsUsd"`
		} `json:"historicalState"`
	} `json:"vaultByAddress"`
}

type assetRef struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

type allocationPayload struct {
	SupplyAssetsUSD *float64 `json:"supplyAssetsUsd"`
	SupplyCapUSD    *float64 `json:"supplyCapUsd"`
	Enabled         bool     `json:"enabled"`
	Market          *struct {
		UniqueKey       string    `json:"uniqueKey"`
		LoanAsset       *assetRef `json:"loanAsset"`
		CollateralAsset *assetRef `json:"collateralAsset"`
		State           *struct {
			Utilization *float64 `json:"utilization"`
		} `json:"state"`
	} `json:"market"`
}

type vaultPayload struct {
	Address     string `json:"address"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Whitelisted bool   `json:"whitelisted"`
	Promoted    bool   `json:"promoted"`
	Metadata    *struct {
		Description string `json:"description"`
		Image       string `json:"image"`
	} `json:"metadata"`
	Asset *assetRef `json:"asset"`
	Chain *struct {
		ID int `json:"id"`
	} `json:"chain"`
	State *struct {
		TotalAssetsUSD *float64            `json:"totalAssetsUsd"`
		TotalAssets    *float64            `json:"totalAssets"`
		APY            *float64            `json:"apy"`
		NetAPY         *float64            `json:"netApy"`
		Fee            *float64            `json:"fee"`
		SharePriceUSD  *float64            `json:"sharePriceUsd"`
		Curator        string              `json:"curator"`
		FeeRecipient   string              `json:"feeRecipient"`
		Guardian       string              `json:"guardian"`
		Owner          string              `json:"owner"`
		Allocation     []allocationPayload `json:"allocation"`
	} `json:"state"`
}

type vaultDetailsResponse struct {
	VaultByAddress *vaultPayload `json:"vaultByAddress"`
}

type curatorPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Verified    bool   `json:"verified"`
	Addresses   []struct {
		ChainID int    `json:"chainId"`
		Address string `json:"address"`
	} `json:"addresses"`
}

type curatorByIDResponse struct {
	Curator *curatorPayload `json:"curator"`
}

type curatorByAddressResponse struct {
	Curators struct {
		Items []curatorPayload `json:"items"`
	} `json:"curators"`
}

type curatorVaultsResponse struct {
	Vaults struct {
		Items []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			Address     string `json:"address"`
			Whitelisted bool   `json:"whitelisted"`
			Chain       *struct {
				ID int `json:"id"`
			} `json:"chain"`
			Asset *struct {
				Symbol string `json:"symbol"`
			} `json:"asset"`
			State *struct {
				TotalAssetsUSD *float64 `json:"totalAssetsUsd"`
			} `json:"state"`
		} `json:"items"`
	} `json:"vaults"`
}
