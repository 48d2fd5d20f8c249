package application

import "time"

// ProgressState carries what the throttle needs between progress callbacks.
type ProgressState struct {
	LastReport time.Time
}

// ShouldReport decides whether a progress update for percent is shown now.
// Updates are spaced at least interval apart, except 100% which is always shown.
func ShouldReport(state ProgressState, now time.Time, percent int, interval time.Duration) (bool, ProgressState) {
	if percent < 100 && !state.LastReport.IsZero() && now.Sub(state.LastReport) < interval {
		return false, state
	}
	return true, ProgressState{LastReport: now}
}
