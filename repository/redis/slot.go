package redis

import (
	"context"
	"errors"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/flow/repository"
)

// DefaultKey matches the key the browser build used for its local storage slot.
const DefaultKey = "todo-vibe-app-todos"

type slot struct {
	client *redislib.Client
	key    string
}

// NewSlot creates a Redis-backed slot. The blob never expires.
func NewSlot(client *redislib.Client, key string) repository.Slot {
	if key == "" {
		key = DefaultKey
	}
	return &slot{client: client, key: key}
}

func (s *slot) Get(ctx context.Context) ([]byte, error) {
	blob, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, repository.ErrSlotEmpty
		}
		return nil, err
	}
	return blob, nil
}

func (s *slot) Put(ctx context.Context, blob []byte) error {
	return s.client.Set(ctx, s.key, blob, 0).Err()
}

func (s *slot) Delete(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

func (s *slot) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *slot) Close() error {
	return s.client.Close()
}
