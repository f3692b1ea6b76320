package clock

import (
	"sync"
	"time"
)

// Fake is a deterministic clock. Time only moves through Advance and Set, and
// timers fire synchronously on the goroutine that moves it.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *Fake
	id      int
	when    time.Time
	period  time.Duration
	fn      func()
	stopped bool
}

// NewFake returns a fake clock frozen at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		d = time.Second
	}
	return f.add(d, d, fn)
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	return f.add(d, 0, fn)
}

// Set moves the clock to t, firing every timer due on the way.
func (f *Fake) Set(t time.Time) {
	f.Advance(t.Sub(f.Now()))
}

// Advance moves the clock forward by d. Due timers fire in deadline order and
// observe Now() equal to their own deadline.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		next := f.nextDue(target)
		if next == nil {
			if target.After(f.now) {
				f.now = target
			}
			f.mu.Unlock()
			return
		}
		f.now = next.when
		if next.period > 0 {
			next.when = next.when.Add(next.period)
		} else {
			next.stopped = true
		}
		fn := next.fn
		f.compact()
		f.mu.Unlock()

		fn()
	}
}

// Pending returns the number of live timers.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.compact()
	return len(f.timers)
}

func (f *Fake) add(d, period time.Duration, fn func()) *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	t := &fakeTimer{
		clock:  f,
		id:     f.seq,
		when:   f.now.Add(d),
		period: period,
		fn:     fn,
	}
	f.timers = append(f.timers, t)
	return t
}

func (f *Fake) nextDue(target time.Time) *fakeTimer {
	var next *fakeTimer
	for _, t := range f.timers {
		if t.stopped || t.when.After(target) {
			continue
		}
		if next == nil || t.when.Before(next.when) || (t.when.Equal(next.when) && t.id < next.id) {
			next = t
		}
	}
	return next
}

func (f *Fake) compact() {
	live := f.timers[:0]
	for _, t := range f.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(f.timers); i++ {
		f.timers[i] = nil
	}
	f.timers = live
}

func (t *fakeTimer) Stop() {
	t.clock.mu.Lock()
	t.stopped = true
	t.clock.mu.Unlock()
}
