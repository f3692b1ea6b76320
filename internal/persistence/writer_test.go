package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/flow/domain"
	"github.com/fastygo/flow/internal/clock"
	"github.com/fastygo/flow/internal/store"
	"github.com/fastygo/flow/repository/memory"
)

type recordingSaver struct {
	saved [][]domain.Task
	err   error
}

func (r *recordingSaver) Save(ctx context.Context, tasks []domain.Task) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, tasks)
	return nil
}

func newStore(c clock.Clock) *store.Store {
	n := 0
	return store.New(nil, store.WithClock(c), store.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
}

func TestWriter_SynchronousWrites(t *testing.T) {
	c := clock.NewFake(time.UnixMilli(0))
	s := newStore(c)
	saver := &recordingSaver{}
	w := NewWriter(saver, c, nil, WriterConfig{})
	w.Attach(s)

	s.Add("a")
	s.Add("b")

	require.Len(t, saver.saved, 2)
	assert.Len(t, saver.saved[1], 2)
	assert.Equal(t, uint64(2), w.Stats().Written)
}

// racySource commits a change between the writer's first snapshot and its
// subscription.
type racySource struct {
	*store.Store
}

func (r racySource) Subscribe(fn store.Listener) func() {
	r.Store.Add("committed while subscribing")
	return r.Store.Subscribe(fn)
}

func TestWriter_AttachSavesChangeMadeWhileSubscribing(t *testing.T) {
	c := clock.NewFake(time.UnixMilli(0))
	s := newStore(c)
	saver := &recordingSaver{}
	w := NewWriter(saver, c, nil, WriterConfig{})
	w.Attach(racySource{s})

	require.Len(t, saver.saved, 1)
	assert.Equal(t, "committed while subscribing", saver.saved[0][0].Text)
	assert.Equal(t, uint64(1), w.Stats().Written)

	s.Add("later")
	assert.Len(t, saver.saved, 2)
}

func TestWriter_NoWriteBeforeFirstMutation(t *testing.T) {
	slot := memory.NewSlot([]byte(`[{"id":"keep","text":"stored","createdAt":1}]`))
	adapter := NewAdapter(slot, nil)
	tasks, err := adapter.Load(context.Background())
	require.NoError(t, err)

	c := clock.NewFake(time.UnixMilli(0))
	s := store.New(tasks, store.WithClock(c))
	w := NewWriter(adapter, c, nil, WriterConfig{Debounce: time.Second})
	w.Attach(s)
	require.NoError(t, w.Close(context.Background()))

	assert.Zero(t, slot.Writes())
}

func TestWriter_DebounceCoalescesBursts(t *testing.T) {
	c := clock.NewFake(time.UnixMilli(0))
	s := newStore(c)
	saver := &recordingSaver{}
	w := NewWriter(saver, c, nil, WriterConfig{Debounce: 500 * time.Millisecond})
	w.Attach(s)

	for i := 0; i < 10; i++ {
		s.Add(fmt.Sprintf("task %d", i))
	}
	assert.Empty(t, saver.saved)
	assert.True(t, w.Stats().Pending)

	c.Advance(500 * time.Millisecond)
	require.Len(t, saver.saved, 1)
	assert.Len(t, saver.saved[0], 10)
	assert.False(t, w.Stats().Pending)

	s.Add("later")
	c.Advance(time.Second)
	require.Len(t, saver.saved, 2)
	assert.Len(t, saver.saved[1], 11)
}

func TestWriter_DropsStaleSnapshots(t *testing.T) {
	saver := &recordingSaver{}
	w := NewWriter(saver, clock.NewFake(time.UnixMilli(0)), nil, WriterConfig{})

	w.Observe(store.Snapshot{Version: 2, Tasks: []domain.Task{{ID: "new"}}})
	w.Observe(store.Snapshot{Version: 1, Tasks: []domain.Task{{ID: "old"}}})
	w.Observe(store.Snapshot{Version: 2, Tasks: []domain.Task{{ID: "dup"}}})

	require.Len(t, saver.saved, 1)
	assert.Equal(t, "new", saver.saved[0][0].ID)
}

func TestWriter_RetriesFailedSaveOnFlush(t *testing.T) {
	c := clock.NewFake(time.UnixMilli(0))
	s := newStore(c)
	saver := &recordingSaver{err: errors.New("disk full")}
	w := NewWriter(saver, c, nil, WriterConfig{})
	w.Attach(s)

	s.Add("a")
	stats := w.Stats()
	assert.Equal(t, 1, stats.Failures)
	assert.Equal(t, "disk full", stats.LastError)
	assert.True(t, stats.Pending)

	saver.err = nil
	require.NoError(t, w.Flush(context.Background()))
	require.Len(t, saver.saved, 1)
	stats = w.Stats()
	assert.False(t, stats.Pending)
	assert.Empty(t, stats.LastError)
	assert.Equal(t, 1, stats.Failures)
}

func TestWriter_CloseFlushesAndStops(t *testing.T) {
	c := clock.NewFake(time.UnixMilli(0))
	s := newStore(c)
	saver := &recordingSaver{}
	w := NewWriter(saver, c, nil, WriterConfig{Debounce: time.Minute})
	w.Attach(s)

	s.Add("a")
	require.NoError(t, w.Close(context.Background()))
	require.Len(t, saver.saved, 1)

	s.Add("b")
	c.Advance(2 * time.Minute)
	assert.Len(t, saver.saved, 1)
}
