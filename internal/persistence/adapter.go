package persistence

import (
	"bytes"
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fastygo/flow/domain"
	"github.com/fastygo/flow/repository"
)

// Adapter loads and saves the task collection through a single slot.
type Adapter struct {
	slot   repository.Slot
	logger *zap.Logger
}

func NewAdapter(slot repository.Slot, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{slot: slot, logger: logger}
}

// Load reads the stored collection. An absent or unreadable-as-tasks blob
// yields an empty collection, and a corrupt blob is deleted. The returned
// error is non-nil only when the slot itself could not be read.
func (a *Adapter) Load(ctx context.Context) ([]domain.Task, error) {
	blob, err := a.slot.Get(ctx)
	if errors.Is(err, repository.ErrSlotEmpty) {
		a.logger.Info("no stored tasks, starting empty")
		return []domain.Task{}, nil
	}
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, domain.ErrStorageFailure.Message, err)
	}
	if len(bytes.TrimSpace(blob)) == 0 {
		return []domain.Task{}, nil
	}

	tasks, err := Decode(blob)
	if err != nil {
		a.logger.Warn("discarding corrupt task blob", zap.Int("bytes", len(blob)), zap.Error(err))
		if delErr := a.slot.Delete(ctx); delErr != nil {
			a.logger.Error("failed to delete corrupt task blob", zap.Error(delErr))
		}
		return []domain.Task{}, nil
	}

	a.logger.Info("tasks loaded", zap.Int("count", len(tasks)))
	return tasks, nil
}

// Save replaces the stored blob with the full collection.
func (a *Adapter) Save(ctx context.Context, tasks []domain.Task) error {
	blob, err := Encode(tasks)
	if err != nil {
		return err
	}
	return a.slot.Put(ctx, blob)
}
