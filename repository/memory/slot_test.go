package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/flow/repository"
)

func TestSlot(t *testing.T) {
	ctx := context.Background()
	s := NewSlot(nil)

	_, err := s.Get(ctx)
	assert.ErrorIs(t, err, repository.ErrSlotEmpty)

	blob := []byte("[]")
	require.NoError(t, s.Put(ctx, blob))
	blob[0] = 'x'

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
	assert.Equal(t, 1, s.Writes())

	require.NoError(t, s.Delete(ctx))
	_, err = s.Get(ctx)
	assert.ErrorIs(t, err, repository.ErrSlotEmpty)
}

func TestNewSlot_Prefilled(t *testing.T) {
	s := NewSlot([]byte("{"))
	got, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "{", string(got))
	assert.Zero(t, s.Writes())
}
