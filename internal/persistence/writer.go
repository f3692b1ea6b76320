package persistence

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/flow/domain"
	"github.com/fastygo/flow/internal/clock"
	"github.com/fastygo/flow/internal/store"
)

// Saver persists a full collection.
type Saver interface {
	Save(ctx context.Context, tasks []domain.Task) error
}

// Source is the part of the task store the writer follows.
type Source interface {
	Snapshot() store.Snapshot
	Subscribe(fn store.Listener) func()
}

// WriterConfig controls write coalescing.
type WriterConfig struct {
	// Debounce is the coalescing window. Zero writes synchronously on every change.
	Debounce time.Duration
	// Timeout bounds a single save.
	Timeout time.Duration
}

// WriterStats is exposed on the health endpoint.
type WriterStats struct {
	Written   uint64 `json:"written_version"`
	Pending   bool   `json:"pending"`
	Failures  int    `json:"failures"`
	// LastError is the error of the latest save and clears on success.
	LastError string `json:"last_error,omitempty"`
}

// Writer saves store snapshots after they are committed. It must be attached
// only after the initial load so an empty boot state never overwrites stored data.
type Writer struct {
	saver  Saver
	clock  clock.Clock
	logger *zap.Logger
	cfg    WriterConfig

	saveMu sync.Mutex

	mu       sync.Mutex
	pending  *store.Snapshot
	latest   uint64
	written  uint64
	failures int
	lastErr  string
	timer    clock.Timer
	closed   bool
}

func NewWriter(saver Saver, clk clock.Clock, logger *zap.Logger, cfg WriterConfig) *Writer {
	if clk == nil {
		clk = clock.NewReal(logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Writer{saver: saver, clock: clk, logger: logger, cfg: cfg}
}

// Attach subscribes the writer to s and returns the unsubscribe func. The
// current snapshot counts as written. A change committed while subscribing is
// picked up by the second snapshot.
func (w *Writer) Attach(s Source) func() {
	snap := s.Snapshot()
	w.mu.Lock()
	if snap.Version > w.latest {
		w.latest = snap.Version
		w.written = snap.Version
	}
	w.mu.Unlock()

	cancel := s.Subscribe(w.Observe)
	w.Observe(s.Snapshot())
	return cancel
}

// Observe accepts a committed snapshot. Snapshots older than one already seen
// are dropped.
func (w *Writer) Observe(snap store.Snapshot) {
	w.mu.Lock()
	if w.closed || snap.Version <= w.latest {
		w.mu.Unlock()
		return
	}
	w.latest = snap.Version
	w.pending = &snap

	if w.cfg.Debounce <= 0 {
		w.mu.Unlock()
		w.flushWithTimeout()
		return
	}
	if w.timer == nil {
		w.timer = w.clock.AfterFunc(w.cfg.Debounce, w.flushWithTimeout)
	}
	w.mu.Unlock()
}

// Flush writes any pending snapshot immediately.
func (w *Writer) Flush(ctx context.Context) error {
	w.saveMu.Lock()
	defer w.saveMu.Unlock()

	w.mu.Lock()
	snap := w.pending
	w.pending = nil
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	if snap == nil {
		return nil
	}

	if err := w.saver.Save(ctx, snap.Tasks); err != nil {
		w.mu.Lock()
		w.failures++
		w.lastErr = err.Error()
		if w.pending == nil {
			// Keep it for the next change or the shutdown flush.
			w.pending = snap
		}
		w.mu.Unlock()
		w.logger.Error("failed to save tasks", zap.Uint64("version", snap.Version), zap.Error(err))
		return err
	}

	w.mu.Lock()
	if snap.Version > w.written {
		w.written = snap.Version
	}
	w.lastErr = ""
	w.mu.Unlock()
	w.logger.Debug("tasks saved", zap.Uint64("version", snap.Version), zap.Int("count", len(snap.Tasks)))
	return nil
}

// Close flushes pending work and stops accepting snapshots.
func (w *Writer) Close(ctx context.Context) error {
	err := w.Flush(ctx)
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return err
}

func (w *Writer) Stats() WriterStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return WriterStats{
		Written:   w.written,
		Pending:   w.pending != nil,
		Failures:  w.failures,
		LastError: w.lastErr,
	}
}

func (w *Writer) flushWithTimeout() {
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.Timeout)
	defer cancel()
	_ = w.Flush(ctx)
}
