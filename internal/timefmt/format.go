// Package timefmt renders task timestamps and durations for display.
package timefmt

import (
	"strconv"
	"strings"
	"time"

	"github.com/fastygo/flow/domain"
)

// FloorLabel is shown for durations shorter than one minute.
const FloorLabel = "< 1m"

// FormatClockTime renders epoch milliseconds as a short 12-hour clock time, e.g. "10:30 AM".
func FormatClockTime(ts int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ts).In(loc).Format("3:04 PM")
}

// FormatDuration renders an elapsed time using days, hours and minutes:
// "< 1m", "5m", "2h 15m", "1d 2h". Minutes are dropped once a day has passed.
func FormatDuration(ms int64) string {
	totalMinutes := ms / int64(time.Minute/time.Millisecond)
	if totalMinutes < 1 {
		return FloorLabel
	}

	days := totalMinutes / 1440
	hours := (totalMinutes % 1440) / 60
	minutes := totalMinutes % 60

	parts := make([]string, 0, 2)
	if days > 0 {
		parts = append(parts, strconv.FormatInt(days, 10)+"d")
	}
	if hours > 0 {
		parts = append(parts, strconv.FormatInt(hours, 10)+"h")
	}
	if minutes > 0 && days == 0 {
		parts = append(parts, strconv.FormatInt(minutes, 10)+"m")
	}
	if len(parts) == 0 {
		return FloorLabel
	}
	return strings.Join(parts, " ")
}

// FormatLifetime renders the meta line shown under a task:
// "created 10:30 AM" or "created 10:30 AM · done 11:00 AM · took 30m".
func FormatLifetime(t domain.Task, loc *time.Location) string {
	line := "created " + FormatClockTime(t.CreatedAt, loc)
	if !t.Completed || t.CompletedAt == nil {
		return line
	}
	return line +
		" · done " + FormatClockTime(*t.CompletedAt, loc) +
		" · took " + FormatDuration(*t.CompletedAt-t.CreatedAt)
}
