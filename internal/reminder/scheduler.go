// Package reminder fires due task reminders and drives the attention side
// effects that follow: platform notification, toast and title flash.
package reminder

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/flow/domain"
	"github.com/fastygo/flow/internal/clock"
)

// TaskSource is the slice of the task store the scheduler needs.
type TaskSource interface {
	Tasks() []domain.Task
	ClearReminderIf(id string, at int64) bool
}

// Sink receives the scheduler's outbound events.
type Sink interface {
	ReminderFired(r domain.Reminder)
	ToastDismissed(id string)
	TitleChanged(title string)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) ReminderFired(domain.Reminder) {}
func (NopSink) ToastDismissed(string)         {}
func (NopSink) TitleChanged(string)           {}

// Config controls timing and the strings used for attention effects.
type Config struct {
	PollInterval      time.Duration
	FlashInterval     time.Duration
	ToastTimeout      time.Duration // negative disables auto-dismiss
	NotifyTimeout     time.Duration
	AlertLabel        string
	IdleTitle         string
	NotificationTitle string
}

func (c *Config) applyDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = 30 * time.Second
	}
	if c.FlashInterval <= 0 {
		c.FlashInterval = time.Second
	}
	if c.ToastTimeout == 0 {
		c.ToastTimeout = 6 * time.Second
	}
	if c.NotifyTimeout <= 0 {
		c.NotifyTimeout = 5 * time.Second
	}
	if c.AlertLabel == "" {
		c.AlertLabel = "Reminder"
	}
	if c.IdleTitle == "" {
		c.IdleTitle = "flow."
	}
	if c.NotificationTitle == "" {
		c.NotificationTitle = c.IdleTitle
	}
}

// AlertTitle is the title shown on the alert frames of a flash.
func (c Config) AlertTitle() string {
	return "🔔 " + c.AlertLabel
}

// Scheduler polls the task source and fires at most one due reminder per tick.
// Lock order is mu before the flasher's lock, so Sink.TitleChanged may run with
// mu held and must not call back into the scheduler.
type Scheduler struct {
	tasks    TaskSource
	clock    clock.Clock
	notifier Notifier
	sink     Sink
	logger   *zap.Logger
	cfg      Config
	flasher  *Flasher

	checkMu sync.Mutex

	mu         sync.Mutex
	poll       clock.Timer
	toast      *domain.Reminder
	toastTimer clock.Timer
	toastGen   uint64
}

func New(tasks TaskSource, clk clock.Clock, notifier Notifier, sink Sink, logger *zap.Logger, cfg Config) *Scheduler {
	cfg.applyDefaults()
	if clk == nil {
		clk = clock.NewReal(logger)
	}
	if notifier == nil {
		notifier = DeniedNotifier{}
	}
	if sink == nil {
		sink = NopSink{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		tasks:    tasks,
		clock:    clk,
		notifier: notifier,
		sink:     sink,
		logger:   logger,
		cfg:      cfg,
	}
	s.flasher = NewFlasher(clk, cfg.FlashInterval, cfg.IdleTitle, sink.TitleChanged)
	return s
}

// Start asks for notification permission if it was never decided, runs one
// immediate check and then polls every PollInterval. Calling Start twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.poll != nil {
		s.mu.Unlock()
		return
	}
	s.poll = s.clock.Every(s.cfg.PollInterval, func() { s.Check(context.Background()) })
	s.mu.Unlock()

	if s.notifier.Permission() == PermissionDefault {
		perm := s.notifier.RequestPermission(ctx)
		s.logger.Info("notification permission resolved", zap.String("permission", string(perm)))
	}
	s.logger.Info("reminder scheduler started", zap.Duration("interval", s.cfg.PollInterval))
	s.Check(ctx)
}

// Stop tears down the poll loop, the flash and any pending toast timer.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.poll != nil {
		s.poll.Stop()
		s.poll = nil
	}
	if s.toastTimer != nil {
		s.toastTimer.Stop()
		s.toastTimer = nil
	}
	s.mu.Unlock()

	s.flasher.Stop()
	s.logger.Info("reminder scheduler stopped")
}

// Check runs one poll tick. It returns the reminder it fired, if any.
func (s *Scheduler) Check(ctx context.Context) (domain.Reminder, bool) {
	s.checkMu.Lock()
	defer s.checkMu.Unlock()

	now := s.clock.Now().UnixMilli()
	tasks := s.tasks.Tasks()
	for i := range tasks {
		if !tasks[i].ReminderDue(now) {
			continue
		}
		r := domain.Reminder{ID: tasks[i].ID, Text: tasks[i].Text}
		s.fire(ctx, r, *tasks[i].ReminderAt)
		return r, true
	}
	return domain.Reminder{}, false
}

// FocusGained stops the title flash. The toast stays until dismissed.
func (s *Scheduler) FocusGained() {
	s.flasher.Stop()
}

// DismissToast clears the active toast and stops the flash.
func (s *Scheduler) DismissToast() {
	s.dismiss(0, false)
}

// ActiveToast returns the reminder currently shown, if any.
func (s *Scheduler) ActiveToast() (domain.Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.toast == nil {
		return domain.Reminder{}, false
	}
	return *s.toast, true
}

// Flashing reports whether the title flash is running.
func (s *Scheduler) Flashing() bool {
	return s.flasher.Active()
}

// fire runs the reminder effects and then clears reminderAt, but only while it
// still holds at. A reminder set again during the notification survives.
func (s *Scheduler) fire(ctx context.Context, r domain.Reminder, at int64) {
	s.logger.Info("reminder fired", zap.String("task_id", r.ID))

	s.notify(ctx, r)

	s.mu.Lock()
	s.clearToastLocked()
	s.toastGen++
	gen := s.toastGen
	toast := r
	s.toast = &toast
	if s.cfg.ToastTimeout > 0 {
		s.toastTimer = s.clock.AfterFunc(s.cfg.ToastTimeout, func() { s.dismiss(gen, true) })
	}
	s.mu.Unlock()

	s.sink.ReminderFired(r)

	s.mu.Lock()
	if gen == s.toastGen {
		s.flasher.Start(s.cfg.AlertTitle())
	}
	s.mu.Unlock()

	if !s.tasks.ClearReminderIf(r.ID, at) {
		s.logger.Debug("reminder changed while firing, kept", zap.String("task_id", r.ID))
	}
}

func (s *Scheduler) notify(ctx context.Context, r domain.Reminder) {
	if s.notifier.Permission() != PermissionGranted {
		s.logger.Debug("platform notification skipped", zap.String("permission", string(s.notifier.Permission())))
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.NotifyTimeout)
	defer cancel()
	if err := s.notifier.Notify(ctx, Notification{Title: s.cfg.NotificationTitle, Body: r.Text}); err != nil {
		s.logger.Warn("platform notification failed", zap.String("task_id", r.ID), zap.Error(err))
	}
}

// dismiss clears the toast and stops the flash. When onlyGen is set it acts
// only if no newer toast has replaced generation gen.
func (s *Scheduler) dismiss(gen uint64, onlyGen bool) {
	s.mu.Lock()
	if onlyGen && gen != s.toastGen {
		s.mu.Unlock()
		return
	}
	s.toastGen++
	dismissed := s.clearToastLocked()
	s.flasher.Stop()
	s.mu.Unlock()

	if dismissed != nil {
		s.sink.ToastDismissed(dismissed.ID)
	}
}

func (s *Scheduler) clearToastLocked() *domain.Reminder {
	if s.toastTimer != nil {
		s.toastTimer.Stop()
		s.toastTimer = nil
	}
	dismissed := s.toast
	s.toast = nil
	return dismissed
}
