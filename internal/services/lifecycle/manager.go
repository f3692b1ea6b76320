// Package lifecycle owns process start and stop ordering for the flow server.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ShutdownFunc releases one component. It should return once ctx expires.
type ShutdownFunc func(ctx context.Context) error

type hook struct {
	name string
	fn   ShutdownFunc
}

// Manager runs background components and releases them in reverse start order.
// A first SIGINT/SIGTERM cancels the application context; a second one exits
// the process without waiting for the hooks.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger
	exit    func(code int)

	mu      sync.Mutex
	hooks   []hook
	stopped bool
}

// New creates a manager whose Shutdown is bounded by timeout.
func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{timeout: timeout, logger: logger, exit: os.Exit}
}

// Register adds a shutdown hook. The HTTP server is registered last so it
// stops accepting commands before the writer and the storage slot close.
func (m *Manager) Register(name string, fn ShutdownFunc) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook{name: name, fn: fn})
}

// Shutdown runs every hook once, newest first. Hooks still run after the
// deadline passes so pending writes get a chance to flush. Later calls return nil.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	hooks := m.hooks
	m.hooks = nil
	m.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		if ctx.Err() != nil {
			m.logger.Warn("shutdown deadline passed", zap.String("component", h.name))
		}
		started := time.Now()
		if err := h.fn(ctx); err != nil {
			m.logger.Error("shutdown hook failed", zap.String("component", h.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
			continue
		}
		m.logger.Info("component stopped", zap.String("component", h.name), zap.Duration("took", time.Since(started)))
	}
	return errors.Join(errs...)
}

// Go runs fn in the background. A non-nil error is logged and cancels the
// application so the remaining components shut down.
func (m *Manager) Go(name string, cancel context.CancelFunc, fn func() error) {
	if fn == nil {
		return
	}
	go func() {
		err := fn()
		if err == nil {
			return
		}
		m.logger.Error("component failed", zap.String("component", name), zap.Error(err))
		if cancel != nil {
			cancel()
		}
	}()
}

// Listen watches for SIGINT and SIGTERM without blocking.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		defer signal.Stop(sigCh)
		m.watch(sigCh, cancel)
	}()
}

func (m *Manager) watch(sigCh <-chan os.Signal, cancel context.CancelFunc) {
	sig, ok := <-sigCh
	if !ok {
		return
	}
	m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	cancel()

	sig, ok = <-sigCh
	if !ok {
		return
	}
	m.logger.Warn("second signal received, exiting now", zap.String("signal", sig.String()))
	m.exit(1)
}
