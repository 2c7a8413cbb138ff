// Package analytics turns vault share-price / total-assets history into
// performance and risk figures. Every function here is pure and operates on
// already-fetched series.
package analytics

import "sort"

const secondsPerDay = 86400

// Point is one observation of a vault's history. Either value may be absent.
type Point struct {
	Timestamp      int64    `json:"timestamp"`
	SharePriceUSD  *float64 `json:"share_price_usd,omitempty"`
	TotalAssetsUSD *float64 `json:"total_assets_usd,omitempty"`
}

// Ptr returns a pointer to v, for building points and optional figures.
func Ptr(v float64) *float64 { return &v }

// HasPrice reports whether the point carries a share price.
func (p Point) HasPrice() bool { return p.SharePriceUSD != nil }

// HasAssets reports whether the point carries a total-assets figure.
func (p Point) HasAssets() bool { return p.TotalAssetsUSD != nil }

// Price returns the share price or 0 when absent.
func (p Point) Price() float64 {
	if p.SharePriceUSD == nil {
		return 0
	}
	return *p.SharePriceUSD
}

// Assets returns the total assets or 0 when absent.
func (p Point) Assets() float64 {
	if p.TotalAssetsUSD == nil {
		return 0
	}
	return *p.TotalAssetsUSD
}

// sortedCopy returns the points ordered by timestamp without touching the input.
func sortedCopy(series []Point) []Point {
	out := make([]Point, len(series))
	copy(out, series)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

// filterSorted keeps the points accepted by keep, ordered by timestamp.
func filterSorted(series []Point, keep func(Point) bool) []Point {
	out := make([]Point, 0, len(series))
	for _, p := range series {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}
