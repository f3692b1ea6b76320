package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/flow/domain"
	"github.com/fastygo/flow/pkg/httpcontext"
)

// Attention is the part of the reminder scheduler driven by the UI.
type Attention interface {
	DismissToast()
	FocusGained()
	ActiveToast() (domain.Reminder, bool)
	Flashing() bool
}

// ReminderState describes the on-screen reminder effects.
type ReminderState struct {
	Toast    *domain.Reminder `json:"toast"`
	Flashing bool             `json:"flashing"`
}

type ReminderHandler struct {
	baseHandler
	attention Attention
}

func NewReminderHandler(a Attention, adapter *httpcontext.Adapter, logger *zap.Logger) *ReminderHandler {
	return &ReminderHandler{
		baseHandler: newBaseHandler(adapter, logger),
		attention:   a,
	}
}

// @Summary Current toast and flash state
// @Tags reminder
// @Router /api/v1/reminder [get]
func (h *ReminderHandler) State(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.state())
}

// @Summary Dismiss the reminder toast
// @Tags reminder
// @Router /api/v1/reminder/dismiss [post]
func (h *ReminderHandler) Dismiss(ctx *fasthttp.RequestCtx) {
	h.attention.DismissToast()
	h.respondSuccess(ctx, http.StatusOK, h.state())
}

// @Summary Report that the window regained focus
// @Tags reminder
// @Router /api/v1/window/focus [post]
func (h *ReminderHandler) Focus(ctx *fasthttp.RequestCtx) {
	h.attention.FocusGained()
	h.respondSuccess(ctx, http.StatusOK, h.state())
}

func (h *ReminderHandler) state() ReminderState {
	st := ReminderState{Flashing: h.attention.Flashing()}
	if toast, ok := h.attention.ActiveToast(); ok {
		st.Toast = &toast
	}
	return st
}
