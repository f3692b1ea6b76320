package cli

import (
	"fmt"
	"strings"
	"time"
)

// parseWhen reads a reminder time as "+10m" (relative), "15:04" (next
// occurrence of that wall time in loc) or an RFC3339 timestamp.
func parseWhen(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty reminder time")
	}
	if strings.HasPrefix(raw, "+") {
		d, err := time.ParseDuration(raw[1:])
		if err != nil || d <= 0 {
			return time.Time{}, fmt.Errorf("invalid relative time %q", raw)
		}
		return now.Add(d), nil
	}
	if clock, err := time.ParseInLocation("15:04", raw, loc); err == nil {
		local := now.In(loc)
		at := time.Date(local.Year(), local.Month(), local.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
		if !at.After(local) {
			at = at.AddDate(0, 0, 1)
		}
		return at, nil
	}
	if at, err := time.Parse(time.RFC3339, raw); err == nil {
		return at, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized reminder time %q (use +10m, 15:04 or RFC3339)", raw)
}
