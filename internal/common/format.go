// Package common contains shared formatting helpers used by every feature:
// dream dust amounts, thousands separators and cooldown durations.
package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatDust formats a dream dust amount with thousands separators and the
// currency name. Example: FormatDust(2350) → "2,350 dream dust".
func FormatDust(amount int64) string {
	return fmt.Sprintf("%s dream dust", FormatNumber(amount))
}

// FormatNumber inserts comma separators into an integer.
// Example: FormatNumber(1234567) → "1,234,567".
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatNumber(n/1000), n%1000)
}

// FormatDuration renders a remaining cooldown as "2h 13m" or "4m 9s".
// Hours are omitted when zero; seconds are shown only below one hour, so
// long cooldowns read the way the daily/forage replies expect.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	seconds := int(d % time.Minute / time.Second)

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	} else {
		if minutes > 0 {
			parts = append(parts, fmt.Sprintf("%dm", minutes))
		}
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, " ")
}

// Plural returns singular for n == 1 and plural otherwise.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
