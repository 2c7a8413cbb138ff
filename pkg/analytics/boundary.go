package analytics

import "fmt"

// BoundaryPair holds the two points bounding a requested window.
type BoundaryPair struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// SelectBoundaries picks the first point at or after startTS and the last point
// at or before endTS. When the window falls outside the data, the earliest
// (resp. latest) point is used instead.
func SelectBoundaries(series []Point, startTS, endTS int64) (BoundaryPair, error) {
	if len(series) == 0 {
		return BoundaryPair{}, ErrEmptySeries
	}
	sorted := sortedCopy(series)

	start := sorted[0]
	for _, p := range sorted {
		if p.Timestamp >= startTS {
			start = p
			break
		}
	}

	end := sorted[len(sorted)-1]
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Timestamp <= endTS {
			end = sorted[i]
			break
		}
	}

	if start.Timestamp > end.Timestamp {
		return BoundaryPair{}, fmt.Errorf("%w (start=%d end=%d)", ErrInconsistentSeries, start.Timestamp, end.Timestamp)
	}
	return BoundaryPair{Start: start, End: end}, nil
}

// FullRange returns the earliest and latest points of the series.
func FullRange(series []Point) (BoundaryPair, error) {
	if len(series) == 0 {
		return BoundaryPair{}, ErrEmptySeries
	}
	sorted := sortedCopy(series)
	return BoundaryPair{Start: sorted[0], End: sorted[len(sorted)-1]}, nil
}

// PnL returns end/start - 1 as a decimal. The end price sign is not checked.
func PnL(startPrice, endPrice float64) (float64, error) {
	if startPrice <= 0 {
		return 0, fmt.Errorf("%w, got %g", ErrInvalidPrice, startPrice)
	}
	return endPrice/startPrice - 1, nil
}
