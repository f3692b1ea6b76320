// Package storage opens the configured task slot.
package storage

import (
	"context"
	"fmt"

	"github.com/fastygo/flow/internal/config"
	redisInfra "github.com/fastygo/flow/internal/infrastructure/redis"
	"github.com/fastygo/flow/repository"
	"github.com/fastygo/flow/repository/bolt"
	"github.com/fastygo/flow/repository/memory"
	redisRepo "github.com/fastygo/flow/repository/redis"
)

// Open returns the slot selected by cfg.Driver. The caller owns Close.
func Open(ctx context.Context, cfg config.StorageConfig) (repository.Slot, error) {
	switch cfg.Driver {
	case config.DriverBolt, "":
		slot, err := bolt.Open(bolt.Options{
			Path:    cfg.Path,
			Bucket:  cfg.Bucket,
			Key:     cfg.Key,
			Timeout: cfg.OpenTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("open bolt slot: %w", err)
		}
		return slot, nil
	case config.DriverRedis:
		client, err := redisInfra.NewClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect redis slot: %w", err)
		}
		return redisRepo.NewSlot(client, cfg.Key), nil
	case config.DriverMemory:
		return memory.NewSlot(nil), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
