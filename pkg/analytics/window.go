package analytics

// TVLWindow describes how total assets moved over a trailing window.
type TVLWindow struct {
	StartUSD   float64  `json:"start_usd"`
	EndUSD     float64  `json:"end_usd"`
	ChangeUSD  float64  `json:"change_usd"`
	PctChange  *float64 `json:"pct_change,omitempty"`
	WindowDays int      `json:"window_days"`
	// Widened is set when the trailing window held fewer than two points and
	// the whole usable series was used instead.
	Widened bool `json:"widened,omitempty"`
}

// SummarizeWindow reports the total-assets change over the last days of the
// series. days <= 0 selects the whole series. Returns nil when fewer than two
// points carry a total-assets figure.
func SummarizeWindow(series []Point, days int) *TVLWindow {
	usable := filterSorted(series, Point.HasAssets)
	if len(usable) < 2 {
		return nil
	}

	window := usable
	windowDays := days
	widened := false
	if days <= 0 {
		windowDays = spanDays(usable)
	} else {
		cutoff := usable[len(usable)-1].Timestamp - int64(days)*secondsPerDay
		window = make([]Point, 0, len(usable))
		for _, p := range usable {
			if p.Timestamp >= cutoff {
				window = append(window, p)
			}
		}
		if len(window) < 2 {
			window = usable
			widened = true
			windowDays = spanDays(usable)
		}
	}

	start, end := window[0].Assets(), window[len(window)-1].Assets()
	summary := &TVLWindow{
		StartUSD:   start,
		EndUSD:     end,
		ChangeUSD:  end - start,
		WindowDays: windowDays,
		Widened:    widened,
	}
	if start != 0 {
		summary.PctChange = Ptr(summary.ChangeUSD / start)
	}
	return summary
}

// spanDays is the elapsed span of a sorted series in whole days, at least 1.
func spanDays(sorted []Point) int {
	span := (sorted[len(sorted)-1].Timestamp - sorted[0].Timestamp) / secondsPerDay
	return int(max(span, 1))
}
