package middleware

import (
	"net"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// LocalOnly rejects requests from non-loopback peers unless allowRemote is set.
func LocalOnly(allowRemote bool, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		if allowRemote {
			return next
		}
		return func(ctx *fasthttp.RequestCtx) {
			if !isLoopback(ctx.RemoteIP()) {
				logger.Warn("remote request rejected", zap.String("remote_addr", ctx.RemoteAddr().String()))
				ctx.SetStatusCode(fasthttp.StatusForbidden)
				return
			}
			next(ctx)
		}
	}
}

// AccessLog logs one line per request at debug level.
func AccessLog(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			next(ctx)
			logger.Debug("http request",
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("path", ctx.Path()),
				zap.Int("status", ctx.Response.StatusCode()),
				zap.Duration("elapsed", time.Since(start)),
				zap.ByteString("request_id", ctx.Response.Header.Peek("X-Request-ID")),
			)
		}
	}
}

// Chain applies mws so the first one is outermost.
func Chain(h fasthttp.RequestHandler, mws ...Middleware) fasthttp.RequestHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func isLoopback(ip net.IP) bool {
	return ip != nil && ip.IsLoopback()
}
