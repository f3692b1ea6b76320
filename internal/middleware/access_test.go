package middleware

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func ok(ctx *fasthttp.RequestCtx) { ctx.SetStatusCode(fasthttp.StatusOK) }

func requestFrom(ip string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Init(&fasthttp.Request{}, &net.TCPAddr{IP: net.ParseIP(ip), Port: 50000}, nil)
	ctx.Request.SetRequestURI("/api/v1/tasks")
	return &ctx
}

func TestLocalOnly(t *testing.T) {
	h := LocalOnly(false, nil)(ok)

	local := requestFrom("127.0.0.1")
	h(local)
	assert.Equal(t, fasthttp.StatusOK, local.Response.StatusCode())

	remote := requestFrom("192.168.1.20")
	h(remote)
	assert.Equal(t, fasthttp.StatusForbidden, remote.Response.StatusCode())

	open := requestFrom("192.168.1.20")
	LocalOnly(true, nil)(ok)(open)
	assert.Equal(t, fasthttp.StatusOK, open.Response.StatusCode())
}

func TestChainAndAccessLog(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	var order []string
	mark := func(name string) Middleware {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return func(ctx *fasthttp.RequestCtx) {
				order = append(order, name)
				next(ctx)
			}
		}
	}

	h := Chain(ok, mark("outer"), AccessLog(zap.New(core)), mark("inner"))
	h(requestFrom("::1"))

	assert.Equal(t, []string{"outer", "inner"}, order)
	entries := logs.FilterMessage("http request").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
		assert.Equal(t, "/api/v1/tasks", entries[0].ContextMap()["path"])
	}
}
