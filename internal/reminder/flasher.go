package reminder

import (
	"sync"
	"time"

	"github.com/fastygo/flow/internal/clock"
)

// Flasher alternates the window title between an alert and the idle title
// until stopped. Starting a new flash cancels the running one.
type Flasher struct {
	clock    clock.Clock
	interval time.Duration
	idle     string
	onTitle  func(string)

	mu    sync.Mutex
	timer clock.Timer
	gen   uint64
	on    bool
	alert string
}

// NewFlasher builds a flasher. onTitle runs with the flasher's lock held and
// must not call back into it.
func NewFlasher(clk clock.Clock, interval time.Duration, idle string, onTitle func(string)) *Flasher {
	if interval <= 0 {
		interval = time.Second
	}
	if onTitle == nil {
		onTitle = func(string) {}
	}
	return &Flasher{clock: clk, interval: interval, idle: idle, onTitle: onTitle}
}

// Start begins flashing alert. The first frame shows after one interval.
func (f *Flasher) Start(alert string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopLocked()

	f.gen++
	gen := f.gen
	f.on = true
	f.alert = alert
	f.timer = f.clock.Every(f.interval, func() { f.tick(gen) })
}

// Stop cancels the flash and restores the idle title. It is a no-op when idle.
func (f *Flasher) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopLocked()
}

// Active reports whether a flash is running.
func (f *Flasher) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.timer != nil
}

func (f *Flasher) tick(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen || f.timer == nil {
		return
	}
	title := f.idle
	if f.on {
		title = f.alert
	}
	f.on = !f.on
	f.onTitle(title)
}

func (f *Flasher) stopLocked() {
	if f.timer == nil {
		return
	}
	f.timer.Stop()
	f.timer = nil
	f.gen++
	f.onTitle(f.idle)
}
