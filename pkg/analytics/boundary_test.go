package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricePoint(ts int64, price float64) Point {
	return Point{Timestamp: ts, SharePriceUSD: Ptr(price)}
}

func TestSelectBoundaries(t *testing.T) {
	series := []Point{
		pricePoint(300, 1.3),
		pricePoint(100, 1.1),
		pricePoint(200, 1.2),
		pricePoint(400, 1.4),
	}

	tests := []struct {
		name      string
		start     int64
		end       int64
		wantStart int64
		wantEnd   int64
	}{
		{name: "inside window", start: 150, end: 350, wantStart: 200, wantEnd: 300},
		{name: "exact bounds", start: 100, end: 400, wantStart: 100, wantEnd: 400},
		{name: "start before data", start: 0, end: 250, wantStart: 100, wantEnd: 200},
		{name: "end after data", start: 250, end: 1000, wantStart: 300, wantEnd: 400},
		{name: "start after data falls back to earliest", start: 900, end: 1000, wantStart: 100, wantEnd: 400},
		{name: "end before data falls back to latest", start: 0, end: 50, wantStart: 100, wantEnd: 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := SelectBoundaries(series, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, pair.Start.Timestamp)
			assert.Equal(t, tt.wantEnd, pair.End.Timestamp)
			assert.LessOrEqual(t, pair.Start.Timestamp, pair.End.Timestamp)
		})
	}

	// the input must not be reordered
	assert.Equal(t, int64(300), series[0].Timestamp)
}

func TestSelectBoundariesInconsistent(t *testing.T) {
	series := []Point{pricePoint(100, 1), pricePoint(200, 1), pricePoint(300, 1)}
	_, err := SelectBoundaries(series, 250, 150)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInconsistentSeries))
}

func TestSelectBoundariesEmpty(t *testing.T) {
	_, err := SelectBoundaries(nil, 0, 100)
	assert.ErrorIs(t, err, ErrEmptySeries)

	_, err = FullRange([]Point{})
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestSelectBoundariesAlwaysOrdered(t *testing.T) {
	series := []Point{pricePoint(10, 1), pricePoint(20, 1), pricePoint(30, 1), pricePoint(40, 1)}
	for start := int64(0); start <= 50; start += 5 {
		for end := start; end <= 50; end += 5 {
			pair, err := SelectBoundaries(series, start, end)
			if err != nil {
				assert.ErrorIs(t, err, ErrInconsistentSeries, "start=%d end=%d", start, end)
				continue
			}
			assert.LessOrEqual(t, pair.Start.Timestamp, pair.End.Timestamp, "start=%d end=%d", start, end)
		}
	}
}

func TestFullRange(t *testing.T) {
	pair, err := FullRange([]Point{pricePoint(30, 3), pricePoint(10, 1), pricePoint(20, 2)})
	require.NoError(t, err)
	assert.Equal(t, int64(10), pair.Start.Timestamp)
	assert.Equal(t, int64(30), pair.End.Timestamp)
}

func TestPnL(t *testing.T) {
	pnl, err := PnL(2.5, 2.5)
	require.NoError(t, err)
	assert.Zero(t, pnl)

	pnl, err = PnL(1.0, 1.1)
	require.NoError(t, err)
	assert.InDelta(t, 0.10, pnl, 1e-12)

	pnl, err = PnL(1.0, -0.5)
	require.NoError(t, err, "end price sign is not checked")
	assert.InDelta(t, -1.5, pnl, 1e-12)

	for _, bad := range []float64{0, -1} {
		_, err := PnL(bad, 1)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	}
}
