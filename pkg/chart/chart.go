// Package chart renders share-price history as a PNG line chart.
package chart

import (
	"errors"
	"fmt"
	"time"

	"github.com/vicanso/go-charts/v2"

	"vaultpnl/pkg/analytics"
)

// ErrNoPrices is returned when no point carries a share price.
var ErrNoPrices = errors.New("chart: series has no share prices")

const (
	defaultWidth  = 900
	defaultHeight = 420
)

// SharePrice renders the priced points of series. Subtitle is appended on a
// second title line when set.
func SharePrice(title, subtitle string, series []analytics.Point) ([]byte, error) {
	var (
		labels []string
		values []float64
	)
	for _, p := range series {
		if !p.HasPrice() {
			continue
		}
		labels = append(labels, time.Unix(p.Timestamp, 0).UTC().Format("Jan 02"))
		values = append(values, p.Price())
	}
	if len(values) == 0 {
		return nil, ErrNoPrices
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	padding := (maxVal - minVal) * 0.05
	if padding == 0 {
		padding = maxVal * 0.05
	}
	yMin := minVal - padding
	yMax := maxVal + padding

	split := 6
	if len(labels) <= 30 {
		split = max(len(labels)/3, 3)
	}

	fullTitle := title
	if subtitle != "" {
		fullTitle += "\n" + subtitle
	}
	p, err := charts.LineRender(
		[][]float64{values},
		charts.TitleTextOptionFunc(fullTitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			SplitNumber: split,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.WidthOptionFunc(defaultWidth),
		charts.HeightOptionFunc(defaultHeight),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("chart: render: %w", err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("chart: encode: %w", err)
	}
	return buf, nil
}
