package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReal_AfterFunc(t *testing.T) {
	c := NewReal(nil)
	done := make(chan struct{})
	c.AfterFunc(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestReal_AfterFuncStop(t *testing.T) {
	c := NewReal(nil)
	fired := make(chan struct{}, 1)
	timer := c.AfterFunc(50*time.Millisecond, func() { fired <- struct{}{} })
	timer.Stop()

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestReal_EveryRunsOnCron(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for a real one second tick")
	}
	c := NewReal(nil)
	ticks := make(chan time.Time, 4)
	timer := c.Every(time.Second, func() { ticks <- c.Now() })
	defer timer.Stop()

	select {
	case ts := <-ticks:
		assert.False(t, ts.IsZero())
	case <-time.After(3 * time.Second):
		require.Fail(t, "cron job did not run")
	}
}
