package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/flow/domain"
	"github.com/fastygo/flow/internal/reminder"
	"github.com/fastygo/flow/internal/store"
)

var _ reminder.Sink = (*Broker)(nil)

func TestBroker_FanOut(t *testing.T) {
	b := NewBroker(nil, 4)
	a, cancelA := b.Subscribe()
	c, cancelC := b.Subscribe()
	defer cancelA()
	defer cancelC()

	b.ReminderFired(domain.Reminder{ID: "x", Text: "Buy milk"})

	for _, ch := range []<-chan domain.Event{a, c} {
		ev := <-ch
		assert.Equal(t, domain.EventReminderFired, ev.Name)
		assert.Equal(t, domain.Reminder{ID: "x", Text: "Buy milk"}, ev.Payload)
	}
}

func TestBroker_DropsWhenFull(t *testing.T) {
	b := NewBroker(nil, 1)
	ch, cancel := b.Subscribe()
	defer cancel()

	b.TitleChanged("one")
	b.TitleChanged("two")

	assert.Equal(t, "one", (<-ch).Payload)
	assert.Equal(t, uint64(1), b.Stats().Dropped)
}

func TestBroker_CancelClosesChannel(t *testing.T) {
	b := NewBroker(nil, 1)
	ch, cancel := b.Subscribe()
	assert.Equal(t, 1, b.Stats().Subscribers)

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, b.Stats().Subscribers)
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker(nil, 1)
	ch, cancel := b.Subscribe()
	b.Close()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	late, _ := b.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
	b.TitleChanged("ignored")
}

func TestBroker_StoreChanges(t *testing.T) {
	s := store.New(nil)
	b := NewBroker(nil, 8)
	unsubscribe := b.AttachStore(s)
	defer unsubscribe()
	ch, cancel := b.Subscribe()
	defer cancel()

	task, ok := s.Add("Buy milk")
	require.True(t, ok)

	ev := <-ch
	assert.Equal(t, domain.EventTasksChanged, ev.Name)
	assert.Equal(t, uint64(1), ev.Version)
	tasks, ok := ev.Payload.([]domain.Task)
	require.True(t, ok)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)

	b.tasksChanged(store.Snapshot{Version: 1})
	select {
	case ev := <-ch:
		t.Fatalf("stale snapshot republished: %+v", ev)
	default:
	}
}

func TestBroker_DismissAndTitle(t *testing.T) {
	b := NewBroker(nil, 4)
	ch, cancel := b.Subscribe()
	defer cancel()

	b.ToastDismissed("x")
	b.TitleChanged("flow.")

	assert.Equal(t, domain.Event{Name: domain.EventToastDismissed, Payload: domain.Reminder{ID: "x"}}, <-ch)
	assert.Equal(t, domain.Event{Name: domain.EventTitleChanged, Payload: "flow."}, <-ch)
}
