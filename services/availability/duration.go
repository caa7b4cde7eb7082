package availability

import (
	"strconv"
	"strings"
)

const (
	DefaultDurationHours = 2
	fullDayHours         = 8
	halfDayHours         = 4

	// MaxDurationHours caps parsed durations; anything this long never fits
	// inside business hours.
	MaxDurationHours = 24
)

// ParseDurationHours reads a free-text duration. "full day" and "half day"
// are recognized by phrase; otherwise the first run of ASCII digits is the
// hour count, capped at MaxDurationHours. Text without digits falls back to
// the default.
func ParseDurationHours(text string) int {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "full day"):
		return fullDayHours
	case strings.Contains(lower, "half day"):
		return halfDayHours
	}

	start := strings.IndexFunc(lower, isDigit)
	if start < 0 {
		return DefaultDurationHours
	}
	end := start
	for end < len(lower) && isDigit(rune(lower[end])) {
		end++
	}
	n, err := strconv.Atoi(lower[start:end])
	if err != nil || n > MaxDurationHours {
		// only overflow fails here, since the run is all digits
		return MaxDurationHours
	}
	return n
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
