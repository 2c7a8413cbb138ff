package metricscache

import (
	"context"

	"vaultpnl/pkg/analytics"
	"vaultpnl/pkg/format"
	"vaultpnl/pkg/source"
)

// NewSeriesComputer fetches the series over the requested range and labels
// its performance and trailing TVL window. Metrics that cannot be derived
// from the data are reported as format.NotAvailable.
func NewSeriesComputer(src source.SeriesSource, windowDays int) Computer {
	return func(ctx context.Context, address string, chainID int, startTS, endTS int64) (Metrics, error) {
		series, err := src.Series(ctx, address, chainID, &startTS, &endTS)
		if err != nil {
			return Metrics{}, err
		}
		return Label(series, windowDays), nil
	}
}

// Label formats the cached labels for a series.
func Label(series []analytics.Point, windowDays int) Metrics {
	m := Unavailable()
	if perf := analytics.ComputePerformance(series); perf != nil {
		m.PnL30d = format.Percent(&perf.PnLPct)
	}
	if window := analytics.SummarizeWindow(series, windowDays); window != nil {
		m.TVLChange30d = format.SignedUSDShort(&window.ChangeUSD)
		m.TVLPct30d = format.Percent(window.PctChange)
	}
	return m
}
