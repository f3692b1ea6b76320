package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/flow/api/transport"
	"github.com/fastygo/flow/pkg/httpcontext"
	appLogger "github.com/fastygo/flow/pkg/logger"
	"github.com/fastygo/flow/usecase"
	taskUC "github.com/fastygo/flow/usecase/task"
)

type TaskHandler struct {
	baseHandler
	dispatcher *usecase.Dispatcher
}

func NewTaskHandler(d *usecase.Dispatcher, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		dispatcher:  d,
	}
}

// @Summary List tasks in display order
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	params, err := encodeParams(taskUC.ListParams{Filter: string(ctx.QueryArgs().Peek("filter"))})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	list, err := h.dispatcher.ExecuteQuery(stdCtx, taskUC.QueryList, params)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, list)
}

// @Summary Get one task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, _ := ctx.UserValue("id").(string)
	params, err := encodeParams(taskUC.IDPayload{ID: id})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	item, err := h.dispatcher.ExecuteQuery(stdCtx, taskUC.QueryGet, params)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, item)
}

// @Summary Execute a task command
// @Tags tasks
// @Router /api/v1/commands/{name} [post]
func (h *TaskHandler) Execute(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	name, _ := ctx.UserValue("name").(string)
	if err := transport.ValidName(name); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	result, err := h.dispatcher.ExecuteCommand(stdCtx, name, transport.Payload(ctx.PostBody()))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	appLogger.WithRequestID(stdCtx, h.logger).Debug("command executed", zap.String("command", name))
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(result, transport.CommandMeta{
		Command:   name,
		RequestID: appLogger.RequestID(stdCtx),
	}))
}

func encodeParams(v any) ([]byte, error) {
	return sonicAPI.Marshal(v)
}
