package memory

import (
	"context"
	"sync"

	"github.com/fastygo/flow/repository"
)

// Slot keeps the blob in process memory. Nothing survives a restart.
type Slot struct {
	mu     sync.Mutex
	blob   []byte
	set    bool
	writes int
}

// NewSlot returns an empty slot, optionally pre-filled with blob.
func NewSlot(blob []byte) *Slot {
	s := &Slot{}
	if blob != nil {
		s.blob = append([]byte(nil), blob...)
		s.set = true
	}
	return s
}

func (s *Slot) Get(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return nil, repository.ErrSlotEmpty
	}
	return append([]byte(nil), s.blob...), nil
}

func (s *Slot) Put(ctx context.Context, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = append([]byte(nil), blob...)
	s.set = true
	s.writes++
	return nil
}

func (s *Slot) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = nil
	s.set = false
	return nil
}

func (s *Slot) Ping(ctx context.Context) error {
	return nil
}

func (s *Slot) Close() error {
	return nil
}

// Writes reports how many Put calls succeeded.
func (s *Slot) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

var _ repository.Slot = (*Slot)(nil)
