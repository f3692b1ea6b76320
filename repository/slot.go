package repository

import (
	"context"
	"errors"
)

// ErrSlotEmpty is returned by Get when nothing has been written yet.
var ErrSlotEmpty = errors.New("slot is empty")

// Slot is a single durable blob stored under one fixed key.
type Slot interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, blob []byte) error
	Delete(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
