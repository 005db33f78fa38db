// Package cooldown implements the timed-action policy for daily claims and
// foraging, plus the in-memory keyed-expiry store used for the generic
// per-command throttle.
package cooldown

import "time"

// Standard intervals for the persistent timed actions.
const (
	DailyInterval  = 24 * time.Hour
	ForageInterval = 4 * time.Hour
)

// Result is the outcome of a cooldown check.
type Result struct {
	Allowed   bool
	Remaining time.Duration // zero when Allowed
}

// Check reports whether an action whose last occurrence was at last may run
// again now. A nil last timestamp means the action never ran and is allowed.
// The boundary is inclusive: exactly interval elapsed is allowed.
func Check(last *time.Time, interval time.Duration, now time.Time) Result {
	if last == nil {
		return Result{Allowed: true}
	}
	elapsed := now.Sub(*last)
	if elapsed >= interval {
		return Result{Allowed: true}
	}
	return Result{Remaining: interval - elapsed}
}
