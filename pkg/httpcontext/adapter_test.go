package httpcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/flow/pkg/logger"
)

func TestAttach_PropagatesRequestID(t *testing.T) {
	var rc fasthttp.RequestCtx
	rc.Request.Header.Set(HeaderRequestID, "req-42")
	rc.Request.Header.SetUserAgent("flowctl")

	ctx, cancel := NewAdapter(context.Background(), time.Second).Attach(&rc)
	defer cancel()

	assert.Equal(t, "req-42", appLogger.RequestID(ctx))
	assert.Equal(t, "req-42", string(rc.Response.Header.Peek(HeaderRequestID)))
	assert.Equal(t, "flowctl", ctx.Value(KeyUserAgent))

	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestAttach_GeneratesRequestID(t *testing.T) {
	var rc fasthttp.RequestCtx
	ctx, cancel := NewAdapter(nil, 0).Attach(&rc)
	defer cancel()

	id := appLogger.RequestID(ctx)
	require.NotEmpty(t, id)
	assert.Equal(t, id, string(rc.Response.Header.Peek(HeaderRequestID)))
}

func TestAttachStream_FollowsParent(t *testing.T) {
	parent, stop := context.WithCancel(context.Background())
	var rc fasthttp.RequestCtx

	ctx, cancel := NewAdapter(parent, time.Second).AttachStream(&rc)
	defer cancel()

	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline)

	stop()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
