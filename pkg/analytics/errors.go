package analytics

import "errors"

var (
	// ErrEmptySeries indicates there is no data at all to select from.
	ErrEmptySeries = errors.New("analytics: empty time series")
	// ErrInconsistentSeries indicates the resolved start point lies after the end point.
	ErrInconsistentSeries = errors.New("analytics: inconsistent series, start point is after end point")
	// ErrInvalidPrice indicates a non-positive start price.
	ErrInvalidPrice = errors.New("analytics: start price must be positive")
)
