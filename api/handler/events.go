package handler

import (
	"bufio"
	"context"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/flow/api/transport"
	"github.com/fastygo/flow/domain"
	"github.com/fastygo/flow/internal/store"
	"github.com/fastygo/flow/pkg/httpcontext"
	appLogger "github.com/fastygo/flow/pkg/logger"
)

// Subscriber hands out event streams.
type Subscriber interface {
	Subscribe() (<-chan domain.Event, func())
}

type EventsHandler struct {
	baseHandler
	events    Subscriber
	tasks     interface{ Snapshot() store.Snapshot }
	attention Attention
	keepAlive time.Duration
}

func NewEventsHandler(events Subscriber, tasks interface{ Snapshot() store.Snapshot }, attention Attention, keepAlive time.Duration, adapter *httpcontext.Adapter, logger *zap.Logger) *EventsHandler {
	if keepAlive <= 0 {
		keepAlive = 15 * time.Second
	}
	return &EventsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		events:      events,
		tasks:       tasks,
		attention:   attention,
		keepAlive:   keepAlive,
	}
}

// @Summary Server-sent event stream
// @Tags events
// @Router /api/v1/events [get]
//
// The stream opens with the current collection and, when one is showing, the
// active toast, then relays every published event.
func (h *EventsHandler) Stream(ctx *fasthttp.RequestCtx) {
	var (
		stdCtx context.Context
		cancel context.CancelFunc
	)
	if h.adapter != nil {
		stdCtx, cancel = h.adapter.AttachStream(ctx)
	} else {
		stdCtx, cancel = context.WithCancel(context.Background())
	}

	ctx.SetContentType("text/event-stream")
	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("Connection", "keep-alive")
	ctx.Response.Header.Set("X-Accel-Buffering", "no")

	events, unsubscribe := h.events.Subscribe()
	initial := h.initial()
	log := appLogger.WithRequestID(stdCtx, h.logger)
	log.Debug("event stream opened")

	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer unsubscribe()
		defer log.Debug("event stream closed")

		for _, ev := range initial {
			if err := transport.WriteEvent(w, ev); err != nil {
				return
			}
		}

		ticker := time.NewTicker(h.keepAlive)
		defer ticker.Stop()
		for {
			select {
			case <-stdCtx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := transport.WriteEvent(w, ev); err != nil {
					return
				}
			case <-ticker.C:
				if err := transport.WriteComment(w, "keep-alive"); err != nil {
					return
				}
			}
		}
	})
}

func (h *EventsHandler) initial() []domain.Event {
	var out []domain.Event
	if h.tasks != nil {
		snap := h.tasks.Snapshot()
		out = append(out, domain.Event{Name: domain.EventTasksChanged, Version: snap.Version, Payload: snap.Tasks})
	}
	if h.attention != nil {
		if toast, ok := h.attention.ActiveToast(); ok {
			out = append(out, domain.Event{Name: domain.EventReminderFired, Payload: toast})
		}
	}
	return out
}
