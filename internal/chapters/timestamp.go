package chapters

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseTimestamp converts a clock-style timestamp into a duration. Accepted
// forms are "HH:MM:SS", "MM:SS", and bare seconds, each with an optional
// fractional part on the final segment.
func ParseTimestamp(value string) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, errors.New("empty timestamp")
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("timestamp %q: expected at most HH:MM:SS", value)
	}

	var seconds float64
	for _, part := range parts {
		segment, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return 0, fmt.Errorf("timestamp %q: %w", value, err)
		}
		if segment < 0 {
			return 0, fmt.Errorf("timestamp %q: negative segment", value)
		}
		seconds = seconds*60 + segment
	}

	return FromSeconds(seconds), nil
}

// FormatTimestamp renders a duration as zero-padded HH:MM:SS, truncating any
// fractional second.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// FromSeconds converts floating-point seconds to a duration, rounding to the
// nearest millisecond so repeated float conversions stay stable.
func FromSeconds(seconds float64) time.Duration {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0
	}
	ms := math.Round(seconds * 1000)
	return time.Duration(ms) * time.Millisecond
}

// Seconds converts a duration to floating-point seconds.
func Seconds(d time.Duration) float64 {
	return d.Seconds()
}

// FromMilliseconds converts integer milliseconds to a duration.
func FromMilliseconds(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
