package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Performance summarises a vault's history between its first and last usable points.
type Performance struct {
	StartTimestamp  int64    `json:"start_timestamp"`
	EndTimestamp    int64    `json:"end_timestamp"`
	PnLPct          float64  `json:"pnl_pct"`
	PnLAbs          *float64 `json:"pnl_abs,omitempty"`
	AnnualizedPct   *float64 `json:"annualized_pct,omitempty"`
	DrawdownPct     float64  `json:"drawdown_pct"`
	VolatilityPct   *float64 `json:"volatility_pct,omitempty"`
	FlowUSD         float64  `json:"flow_usd"`
	PnLComponentUSD float64  `json:"pnl_component_usd"`
	TVLChangeUSD    float64  `json:"tvl_change_usd"`
	TVLStart        float64  `json:"tvl_start"`
	TVLEnd          float64  `json:"tvl_end"`
	PeriodDays      float64  `json:"period_days"`
}

// ComputePerformance derives return, drawdown and flow attribution from the
// points carrying both a share price and a total-assets figure. It returns nil
// when fewer than two such points exist or when the start price is not
// positive, since the return is undefined then.
func ComputePerformance(series []Point) *Performance {
	usable := filterSorted(series, func(p Point) bool { return p.HasPrice() && p.HasAssets() })
	if len(usable) < 2 {
		return nil
	}
	start, end := usable[0], usable[len(usable)-1]
	if start.Price() <= 0 {
		return nil
	}

	perf := &Performance{
		StartTimestamp: start.Timestamp,
		EndTimestamp:   end.Timestamp,
		TVLStart:       start.Assets(),
		TVLEnd:         end.Assets(),
		PeriodDays:     float64(end.Timestamp-start.Timestamp) / secondsPerDay,
		PnLPct:         end.Price()/start.Price() - 1,
	}
	perf.PnLAbs = Ptr(start.Assets() * perf.PnLPct)
	if perf.PeriodDays > 0 {
		perf.AnnualizedPct = Ptr(math.Pow(1+perf.PnLPct, 365/perf.PeriodDays) - 1)
	}
	perf.DrawdownPct = MaxDrawdown(usable)
	perf.VolatilityPct = annualizedVolatility(usable, perf.PeriodDays)
	perf.FlowUSD, perf.PnLComponentUSD = AttributeFlows(usable)
	perf.TVLChangeUSD = end.Assets() - start.Assets()
	return perf
}

// MaxDrawdown returns the largest decline from a running share-price peak as a
// positive fraction; 0 means the price never fell below a prior peak.
func MaxDrawdown(series []Point) float64 {
	var peak, worst float64
	first := true
	for _, p := range series {
		if !p.HasPrice() {
			continue
		}
		price := p.Price()
		if first || price > peak {
			peak = price
			first = false
		}
		dd := 0.0
		if peak != 0 {
			dd = (price - peak) / peak
		}
		if dd < worst {
			worst = dd
		}
	}
	return math.Abs(worst)
}

// AttributeFlows splits the total-assets movement of consecutive points into a
// performance part (previous assets times the price return) and a residual net
// capital flow. Steps missing either assets figure contribute nothing, but the
// walk still moves on to the next point.
func AttributeFlows(series []Point) (flowUSD, pnlUSD float64) {
	if len(series) < 2 {
		return 0, 0
	}
	prev := series[0]
	for _, cur := range series[1:] {
		if prev.HasAssets() && cur.HasAssets() {
			r := 0.0
			if prev.Price() != 0 && cur.HasPrice() {
				r = cur.Price()/prev.Price() - 1
			}
			delta := prev.Assets() * r
			pnlUSD += delta
			flowUSD += (cur.Assets() - prev.Assets()) - delta
		}
		prev = cur
	}
	return flowUSD, pnlUSD
}

func annualizedVolatility(series []Point, periodDays float64) *float64 {
	if periodDays <= 0 || len(series) < 3 {
		return nil
	}
	returns := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Price()
		if prev == 0 {
			continue
		}
		returns = append(returns, series[i].Price()/prev-1)
	}
	if len(returns) < 2 {
		return nil
	}
	stepDays := periodDays / float64(len(series)-1)
	if stepDays <= 0 {
		return nil
	}
	sd := stat.StdDev(returns, nil)
	return Ptr(sd * math.Sqrt(365/stepDays))
}
