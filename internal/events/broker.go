// Package events fans store changes and reminder effects out to stream
// subscribers such as the SSE endpoint.
package events

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/fastygo/flow/domain"
	"github.com/fastygo/flow/internal/store"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 32

// Broker delivers events to every subscriber without blocking publishers.
// A subscriber whose buffer is full misses the event.
type Broker struct {
	logger *zap.Logger
	buffer int

	mu          sync.RWMutex
	subs        map[uint64]chan domain.Event
	next        uint64
	closed      bool
	lastVersion uint64

	dropped atomic.Uint64
}

// Stats summarizes broker activity.
type Stats struct {
	Subscribers int    `json:"subscribers"`
	Dropped     uint64 `json:"dropped"`
}

func NewBroker(logger *zap.Logger, buffer int) *Broker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker{
		logger: logger,
		buffer: buffer,
		subs:   make(map[uint64]chan domain.Event),
	}
}

// Subscribe registers a new subscriber. The returned cancel func closes the
// channel and is safe to call more than once.
func (b *Broker) Subscribe() (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, b.buffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.next++
	id := b.next
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Publish sends ev to every subscriber.
func (b *Broker) Publish(ev domain.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.publishLocked(ev)
}

func (b *Broker) publishLocked(ev domain.Event) {
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.dropped.Add(1)
			b.logger.Debug("event dropped for slow subscriber", zap.String("event", ev.Name))
		}
	}
}

// AttachStore publishes a tasks.changed event for every store snapshot newer
// than the last one seen. It returns the unsubscribe func.
func (b *Broker) AttachStore(s *store.Store) func() {
	return s.Subscribe(b.tasksChanged)
}

// tasksChanged holds the write lock while publishing so subscribers always see
// versions in increasing order.
func (b *Broker) tasksChanged(snap store.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if snap.Version <= b.lastVersion {
		return
	}
	b.lastVersion = snap.Version
	b.publishLocked(domain.Event{Name: domain.EventTasksChanged, Version: snap.Version, Payload: snap.Tasks})
}

func (b *Broker) ReminderFired(r domain.Reminder) {
	b.Publish(domain.Event{Name: domain.EventReminderFired, Payload: r})
}

func (b *Broker) ToastDismissed(id string) {
	b.Publish(domain.Event{Name: domain.EventToastDismissed, Payload: domain.Reminder{ID: id}})
}

func (b *Broker) TitleChanged(title string) {
	b.Publish(domain.Event{Name: domain.EventTitleChanged, Payload: title})
}

func (b *Broker) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Stats{Subscribers: len(b.subs), Dropped: b.dropped.Load()}
}

// Close ends every subscription. Later publishes are ignored.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
