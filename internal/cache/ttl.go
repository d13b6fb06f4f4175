package cache

import (
	"fmt"
	"strconv"
	"time"
)

// TTL limits.
const (
	// DefaultTTLSeconds is one day.
	DefaultTTLSeconds = 86400

	// MinTTLSeconds is one minute.
	MinTTLSeconds = 60

	// MaxTTLSeconds is thirty days.
	MaxTTLSeconds = 2592000

	minutesPerHour = 60
	hoursPerDay    = 24
)

// ErrInvalidTTL reports a TTL outside MinTTLSeconds..MaxTTLSeconds.
//
//nolint:gochecknoglobals // Sentinel error.
var ErrInvalidTTL = fmt.Errorf("TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)

// ValidateTTL checks seconds against the allowed range.
func ValidateTTL(seconds int) error {
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return nil
}

// ParseTTL accepts integer seconds ("3600") or a Go duration ("1h30m").
func ParseTTL(s string) (int, error) {
	if seconds, err := strconv.Atoi(s); err == nil {
		return seconds, ValidateTTL(seconds)
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid TTL format: %w", err)
	}
	seconds := int(duration.Seconds())
	return seconds, ValidateTTL(seconds)
}

// FormatDuration renders d compactly, e.g. "45s", "30m", "5h30m", "2d3h".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	if d < hoursPerDay*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % minutesPerHour
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if hours == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd%dh", days, hours)
}
