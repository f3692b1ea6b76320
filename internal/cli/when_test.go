package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWhen(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2024, 5, 1, 14, 0, 0, 0, loc)

	cases := []struct {
		raw  string
		want time.Time
	}{
		{"+10m", now.Add(10 * time.Minute)},
		{"+1h30m", now.Add(90 * time.Minute)},
		{"15:04", time.Date(2024, 5, 1, 15, 4, 0, 0, loc)},
		{"09:00", time.Date(2024, 5, 2, 9, 0, 0, 0, loc)},
		{"14:00", time.Date(2024, 5, 2, 14, 0, 0, 0, loc)},
		{"2024-06-01T08:00:00Z", time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := parseWhen(tc.raw, now, loc)
		require.NoError(t, err, tc.raw)
		assert.True(t, tc.want.Equal(got), "%s: want %s got %s", tc.raw, tc.want, got)
	}
}

func TestParseWhen_Invalid(t *testing.T) {
	now := time.Now()
	for _, raw := range []string{"", "+", "+-5m", "tomorrow", "25:00"} {
		_, err := parseWhen(raw, now, time.UTC)
		assert.Error(t, err, raw)
	}
}
