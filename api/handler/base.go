package handler

import (
	"context"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/flow/api/transport"
	"github.com/fastygo/flow/domain"
	"github.com/fastygo/flow/pkg/httpcontext"
	appLogger "github.com/fastygo/flow/pkg/logger"
)

var sonicAPI = sonic.ConfigStd

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, err := sonicAPI.Marshal(payload)
	if err != nil {
		h.logger.Error("response encoding failed", zap.Error(err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		body = []byte(`{"status":"error","code":"INTERNAL"}`)
	}
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data any) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, reqCtx context.Context, err error) {
	status, code := mapError(err)
	log := appLogger.WithRequestID(reqCtx, h.logger)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("path", string(ctx.Path())), zap.Error(err))
	} else {
		log.Debug("request rejected", zap.String("path", string(ctx.Path())), zap.Error(err))
	}
	h.respondJSON(ctx, status, transport.NewError(code, err.Error(), nil))
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeUnavailable):
		return http.StatusServiceUnavailable, string(domain.ErrCodeUnavailable)
	case domain.IsDomainError(err, domain.ErrCodeCorrupt):
		return http.StatusInternalServerError, string(domain.ErrCodeCorrupt)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}
