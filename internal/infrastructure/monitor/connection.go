package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/flow/domain"
	"github.com/fastygo/flow/internal/clock"
	"github.com/fastygo/flow/internal/events"
	"github.com/fastygo/flow/internal/persistence"
	"github.com/fastygo/flow/repository"
)

// Sources are the components whose state the monitor reports. Nil sources
// are reported as zero values.
type Sources struct {
	Driver    string
	Slot      repository.Slot
	Writer    interface{ Stats() persistence.WriterStats }
	Broker    interface{ Stats() events.Stats }
	Scheduler interface {
		Flashing() bool
		ActiveToast() (domain.Reminder, bool)
	}
	Tasks interface{ Len() int }
}

// Monitor pings the storage slot on an interval and composes a health status
// with the live stats of the other components.
type Monitor struct {
	src      Sources
	clock    clock.Clock
	interval time.Duration
	logger   *zap.Logger

	mu      sync.RWMutex
	storage StorageStatus
	checked time.Time
	timer   clock.Timer
}

func New(src Sources, clk clock.Clock, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.NewReal(logger)
	}
	return &Monitor{
		src:      src,
		clock:    clk,
		interval: interval,
		logger:   logger,
		storage:  StorageStatus{Driver: src.Driver},
	}
}

// Start runs one check immediately and then one per interval.
func (m *Monitor) Start() {
	m.refresh()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer == nil {
		m.timer = m.clock.Every(m.interval, m.refresh)
	}
}

func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// IsOnline reports the last storage check.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.storage.Online
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	status := Status{Storage: m.storage, LastCheck: m.checked}
	m.mu.RUnlock()

	if m.src.Writer != nil {
		status.Persist = m.src.Writer.Stats()
	}
	if m.src.Broker != nil {
		status.Stream = m.src.Broker.Stats()
	}
	if m.src.Scheduler != nil {
		status.Reminder.Flashing = m.src.Scheduler.Flashing()
		if toast, ok := m.src.Scheduler.ActiveToast(); ok {
			status.Reminder.Toast = &toast
		}
	}
	if m.src.Tasks != nil {
		status.Tasks = m.src.Tasks.Len()
	}
	return status
}

func (m *Monitor) refresh() {
	storage := m.checkStorage()

	m.mu.Lock()
	wasOnline := m.storage.Online
	m.storage = storage
	m.checked = m.clock.Now()
	m.mu.Unlock()

	if wasOnline && !storage.Online {
		m.logger.Warn("task storage offline", zap.String("driver", storage.Driver), zap.String("error", storage.Error))
	}
}

func (m *Monitor) checkStorage() StorageStatus {
	status := StorageStatus{Driver: m.src.Driver}
	if m.src.Slot == nil {
		status.Error = "no slot configured"
		return status
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.src.Slot.Ping(ctx); err != nil {
		status.Error = err.Error()
		return status
	}
	status.Online = true
	return status
}
