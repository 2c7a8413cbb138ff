package analytics

import (
	"sort"
	"strings"
)

// minRowPercent drops dust allocations from the composition table.
const minRowPercent = 0.001

// Allocation is one market position of a vault as reported by the data source.
type Allocation struct {
	MarketKey       string
	LoanAsset       string
	CollateralAsset string
	SupplyUSD       *float64
	SupplyCapUSD    *float64
	Utilization     *float64
	Enabled         bool
}

// CompositionRow is a display-ready allocation with its share of the vault.
type CompositionRow struct {
	Title           string   `json:"title"`
	Assets          string   `json:"assets"`
	LoanAsset       string   `json:"loan_asset,omitempty"`
	CollateralAsset string   `json:"collateral_asset,omitempty"`
	SupplyUSD       float64  `json:"supply_usd"`
	Percent         *float64 `json:"percent,omitempty"`
	Utilization     *float64 `json:"utilization,omitempty"`
	Enabled         bool     `json:"enabled"`
}

// share returns the row's percentage of the vault, or -1 when unknown.
func (r CompositionRow) share() float64 {
	if r.Percent == nil {
		return -1
	}
	return *r.Percent
}

// BuildComposition converts allocations into rows sorted by share descending.
func BuildComposition(totalUSD float64, allocations []Allocation) []CompositionRow {
	rows := make([]CompositionRow, 0, len(allocations))
	for _, a := range allocations {
		if a.SupplyUSD == nil {
			continue
		}
		supply := *a.SupplyUSD
		var pct *float64
		if totalUSD != 0 {
			pct = Ptr(supply / totalUSD * 100)
			if *pct < minRowPercent {
				continue
			}
		}
		assets := joinNonEmpty(" / ", a.LoanAsset, a.CollateralAsset)
		title := a.MarketKey
		if title == "" {
			title = assets
		}
		if title == "" {
			title = "Allocation"
		}
		if assets == "" {
			assets = "N/A"
		}
		rows = append(rows, CompositionRow{
			Title:           title,
			Assets:          assets,
			LoanAsset:       a.LoanAsset,
			CollateralAsset: a.CollateralAsset,
			SupplyUSD:       supply,
			Percent:         pct,
			Utilization:     a.Utilization,
			Enabled:         a.Enabled,
		})
	}
	sortByShare(rows)
	return rows
}

// CashRatio returns the fraction of total assets parked in idle markets
// (markets without collateral), or nil when the total is unknown.
func CashRatio(totalUSD float64, allocations []Allocation) *float64 {
	if totalUSD <= 0 {
		return nil
	}
	idle := 0.0
	for _, a := range allocations {
		if a.SupplyUSD == nil || strings.TrimSpace(a.CollateralAsset) != "" {
			continue
		}
		idle += *a.SupplyUSD
	}
	return Ptr(idle / totalUSD)
}

func sortByShare(rows []CompositionRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].share() > rows[j].share()
	})
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
