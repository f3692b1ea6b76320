package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/flow/repository"
)

func TestSlot_RoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	s := NewSlot(client, "")
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	_, err = s.Get(ctx)
	assert.ErrorIs(t, err, repository.ErrSlotEmpty)

	require.NoError(t, s.Put(ctx, []byte(`[]`)))
	stored, err := mr.Get(DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", stored)
	assert.Zero(t, mr.TTL(DefaultKey))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Delete(ctx))
	assert.False(t, mr.Exists(DefaultKey))
}

func TestSlot_ConnectionError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr(), MaxRetries: -1})
	s := NewSlot(client, "custom")
	t.Cleanup(func() { _ = s.Close() })
	mr.Close()

	_, err = s.Get(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrSlotEmpty)
}
