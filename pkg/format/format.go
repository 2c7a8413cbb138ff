// Package format renders figures and dates for display.
package format

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// NotAvailable is the placeholder shown for missing figures.
const NotAvailable = "N/A"

// ErrUnsupportedDate is returned when a date string matches none of the accepted layouts.
var ErrUnsupportedDate = errors.New("format: unsupported date format")

var dateLayouts = []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"}

// ParseDate converts an ISO-like UTC date ("2024-10-01", "2024-10-01 12:00")
// into unix seconds.
func ParseDate(s string) (int64, error) {
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedDate, s)
}

// DefaultRange returns ISO start/end dates covering the last days before now.
func DefaultRange(now time.Time, days int) (start, end string) {
	today := now.UTC().Truncate(24 * time.Hour)
	return today.AddDate(0, 0, -days).Format("2006-01-02"), today.Format("2006-01-02")
}

// Timestamp renders unix seconds as "2006-01-02 15:04 UTC".
func Timestamp(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04 UTC")
}

// Date renders unix seconds as a UTC calendar date.
func Date(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}

// USDShort renders a dollar amount with a B/M/K suffix, e.g. "1.25 M $".
func USDShort(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	sign := ""
	if *v < 0 {
		sign = "-"
	}
	abs := math.Abs(*v)
	for _, unit := range []struct {
		suffix    string
		threshold float64
	}{{"B", 1e9}, {"M", 1e6}, {"K", 1e3}} {
		if abs >= unit.threshold {
			return fmt.Sprintf("%s%.2f %s $", sign, abs/unit.threshold, unit.suffix)
		}
	}
	if abs >= 1 {
		return fmt.Sprintf("%s%.2f $", sign, abs)
	}
	return fmt.Sprintf("%s%.4f $", sign, abs)
}

// SignedUSDShort is USDShort with an explicit "+" for gains.
func SignedUSDShort(v *float64) string {
	if v != nil && *v > 0 {
		return "+" + USDShort(v)
	}
	return USDShort(v)
}

// Percent renders a decimal ratio as a signed percentage, e.g. 0.0123 -> "+1.23 %".
func Percent(ratio *float64) string {
	if ratio == nil || math.IsNaN(*ratio) || math.IsInf(*ratio, 0) {
		return NotAvailable
	}
	return fmt.Sprintf("%+.2f %%", *ratio*100)
}

// SharePrice renders a share price with six decimals.
func SharePrice(v *float64) string {
	if v == nil || *v == 0 {
		return NotAvailable
	}
	return fmt.Sprintf("%.6f $", *v)
}

// PercentPoints renders a value already expressed in percent, e.g. 12.3 -> "12.30 %".
func PercentPoints(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f %%", *v)
}
