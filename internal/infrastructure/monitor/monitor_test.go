package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/flow/domain"
	"github.com/fastygo/flow/internal/clock"
	"github.com/fastygo/flow/internal/events"
	"github.com/fastygo/flow/internal/persistence"
	"github.com/fastygo/flow/repository/memory"
)

type flakySlot struct {
	*memory.Slot
	err error
}

func (f *flakySlot) Ping(context.Context) error { return f.err }

type fakeScheduler struct{ toast *domain.Reminder }

func (f fakeScheduler) Flashing() bool { return f.toast != nil }

func (f fakeScheduler) ActiveToast() (domain.Reminder, bool) {
	if f.toast == nil {
		return domain.Reminder{}, false
	}
	return *f.toast, true
}

type fixedWriter persistence.WriterStats

func (w fixedWriter) Stats() persistence.WriterStats { return persistence.WriterStats(w) }

func TestMonitor_StatusComposesSources(t *testing.T) {
	c := clock.NewFake(time.Unix(100, 0))
	broker := events.NewBroker(nil, 1)
	_, cancel := broker.Subscribe()
	defer cancel()

	m := New(Sources{
		Driver:    "memory",
		Slot:      memory.NewSlot(nil),
		Writer:    fixedWriter{Written: 7},
		Broker:    broker,
		Scheduler: fakeScheduler{toast: &domain.Reminder{ID: "x", Text: "Buy milk"}},
	}, c, time.Second, nil)
	m.Start()
	defer m.Stop()

	status := m.GetStatus()
	assert.True(t, status.Healthy())
	assert.Equal(t, StorageStatus{Driver: "memory", Online: true}, status.Storage)
	assert.Equal(t, uint64(7), status.Persist.Written)
	assert.Equal(t, 1, status.Stream.Subscribers)
	assert.True(t, status.Reminder.Flashing)
	require.NotNil(t, status.Reminder.Toast)
	assert.Equal(t, "x", status.Reminder.Toast.ID)
	assert.Equal(t, time.Unix(100, 0), status.LastCheck)
}

func TestMonitor_DetectsOutage(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	slot := &flakySlot{Slot: memory.NewSlot(nil)}
	m := New(Sources{Driver: "redis", Slot: slot}, c, time.Second, nil)
	m.Start()
	defer m.Stop()
	require.True(t, m.IsOnline())

	slot.err = errors.New("connection refused")
	c.Advance(time.Second)

	assert.False(t, m.IsOnline())
	status := m.GetStatus()
	assert.False(t, status.Healthy())
	assert.Equal(t, "connection refused", status.Storage.Error)
}

func TestMonitor_NoSlot(t *testing.T) {
	m := New(Sources{}, clock.NewFake(time.Unix(0, 0)), 0, nil)
	m.Start()
	m.Stop()
	assert.False(t, m.IsOnline())
	assert.Equal(t, "no slot configured", m.GetStatus().Storage.Error)
}

func TestStatus_HealthyAfterRecoveredSave(t *testing.T) {
	s := Status{Storage: StorageStatus{Online: true}, Persist: persistence.WriterStats{Failures: 3}}
	assert.True(t, s.Healthy())

	s.Persist.LastError = "disk full"
	assert.False(t, s.Healthy())
}
