// Package clock abstracts wall time and timers so schedulers can run against
// virtual time in tests.
package clock

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Timer is a cancellable timer handle. Stop is idempotent.
type Timer interface {
	Stop()
}

// Clock provides the current time and timer construction.
type Clock interface {
	Now() time.Time
	// Every runs fn every d until the returned Timer is stopped. The first run happens after d.
	Every(d time.Duration, fn func()) Timer
	// AfterFunc runs fn once after d unless the returned Timer is stopped first.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Real is backed by the system clock. Periodic jobs run on robfig/cron.
type Real struct {
	logger *zap.Logger
}

// NewReal builds a wall-clock implementation.
func NewReal(logger *zap.Logger) *Real {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Real{logger: logger}
}

func (r *Real) Now() time.Time {
	return time.Now()
}

// Every schedules fn on a dedicated cron runner. Intervals are rounded to whole
// seconds with a one second minimum, as cron.Every does.
func (r *Real) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		d = time.Second
	}
	log := cronLogger{sugar: r.logger.Sugar()}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(log),
		cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
	)
	c.Schedule(cron.Every(d), cron.FuncJob(fn))
	c.Start()
	return &cronTimer{cron: c}
}

func (r *Real) AfterFunc(d time.Duration, fn func()) Timer {
	return &wallTimer{timer: time.AfterFunc(d, fn)}
}

type cronTimer struct {
	cron *cron.Cron
}

// Stop does not wait for a running job, so it is safe to call from inside one.
func (t *cronTimer) Stop() {
	t.cron.Stop()
}

type wallTimer struct {
	timer *time.Timer
}

func (t *wallTimer) Stop() {
	t.timer.Stop()
}

// cronLogger routes cron's internal logging into zap.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
