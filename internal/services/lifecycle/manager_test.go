package lifecycle

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestShutdown_ReverseOrderAndJoinedErrors(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := New(time.Second, zap.New(core))

	var order []string
	m.Register("writer", func(context.Context) error {
		order = append(order, "writer")
		return errors.New("disk full")
	})
	m.Register("scheduler", func(context.Context) error {
		order = append(order, "scheduler")
		return nil
	})
	m.Register("ignored", nil)
	m.Register("http_server", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		order = append(order, "http_server")
		return nil
	})

	err := m.Shutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writer: disk full")
	assert.Equal(t, []string{"http_server", "scheduler", "writer"}, order)
	assert.Equal(t, 1, logs.FilterMessage("shutdown hook failed").Len())
	assert.Equal(t, 2, logs.FilterMessage("component stopped").Len())

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Len(t, order, 3)
}

func TestListen_NilCancel(t *testing.T) {
	New(0, nil).Listen(nil)
}

func TestGo_CancelsOnFailure(t *testing.T) {
	m := New(time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Go("http_server", cancel, func() error { return errors.New("address in use") })

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled")
	}
}

func TestGo_CleanExitKeepsRunning(t *testing.T) {
	m := New(time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	m.Go("noop", cancel, func() error {
		close(done)
		return nil
	})
	<-done
	assert.NoError(t, ctx.Err())
}

func TestWatch_SecondSignalForcesExit(t *testing.T) {
	m := New(time.Second, nil)
	codes := make(chan int, 1)
	m.exit = func(code int) { codes <- code }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 2)
	done := make(chan struct{})
	go func() {
		m.watch(sigCh, cancel)
		close(done)
	}()

	sigCh <- syscall.SIGTERM
	<-ctx.Done()
	select {
	case <-codes:
		t.Fatal("exited on first signal")
	default:
	}

	sigCh <- syscall.SIGINT
	<-done
	assert.Equal(t, 1, <-codes)
}

func TestWatch_ClosedChannelReturns(t *testing.T) {
	m := New(time.Second, nil)
	m.exit = func(int) { t.Fatal("unexpected exit") }
	sigCh := make(chan os.Signal)
	close(sigCh)
	m.watch(sigCh, func() { t.Fatal("unexpected cancel") })
}

func TestShutdown_RunsHooksPastDeadline(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := New(10*time.Millisecond, zap.New(core))

	flushed := false
	m.Register("writer", func(context.Context) error {
		flushed = true
		return nil
	})
	m.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	err := m.Shutdown(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, flushed)
	assert.Equal(t, 1, logs.FilterMessage("shutdown deadline passed").Len())
}
