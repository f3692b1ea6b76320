package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fastygo/flow/internal/clock"
)

func TestFlasher_Frames(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	var titles []string
	f := NewFlasher(c, time.Second, "idle", func(s string) { titles = append(titles, s) })

	f.Start("alert")
	assert.True(t, f.Active())
	assert.Empty(t, titles, "first frame waits one interval")

	c.Advance(3 * time.Second)
	assert.Equal(t, []string{"alert", "idle", "alert"}, titles)

	f.Stop()
	assert.False(t, f.Active())
	assert.Equal(t, "idle", titles[len(titles)-1])

	c.Advance(5 * time.Second)
	assert.Len(t, titles, 4)
}

func TestFlasher_StopWhenIdleIsSilent(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	calls := 0
	f := NewFlasher(c, time.Second, "idle", func(string) { calls++ })

	f.Stop()
	assert.Zero(t, calls)
}

func TestFlasher_RestartSupersedes(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	var titles []string
	f := NewFlasher(c, time.Second, "idle", func(s string) { titles = append(titles, s) })

	f.Start("first")
	c.Advance(time.Second)
	f.Start("second")
	c.Advance(time.Second)

	assert.Equal(t, []string{"first", "idle", "second"}, titles)
	assert.Equal(t, 1, c.Pending())
}
