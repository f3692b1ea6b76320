// Package store owns the ordered task collection and the mutations allowed on it.
package store

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/flow/domain"
	"github.com/fastygo/flow/internal/clock"
)

// Snapshot is the full ordered collection at a given version. Listeners share
// one copy per change and must treat it as read-only.
type Snapshot struct {
	Version uint64
	Tasks   []domain.Task
}

// Listener receives a snapshot after each committed mutation.
type Listener func(Snapshot)

// Option customizes a Store.
type Option func(*Store)

// WithClock sets the time source used for createdAt and completedAt.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithIDGenerator replaces the default UUIDv7 generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type subscription struct {
	id int
	fn Listener
}

// Store is safe for concurrent use. Every mutation runs to completion under a
// single lock; listeners run afterwards, outside the lock, so they may call
// back into the store.
type Store struct {
	clock  clock.Clock
	newID  func() string
	logger *zap.Logger

	mu      sync.RWMutex
	tasks   []domain.Task
	version uint64

	subMu  sync.Mutex
	subSeq int
	subs   []subscription
}

// New creates a store seeded with the collection loaded at process start.
func New(initial []domain.Task, opts ...Option) *Store {
	s := &Store{
		clock:  clock.NewReal(nil),
		newID:  NewID,
		logger: zap.NewNop(),
		tasks:  domain.CloneTasks(initial),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a time-ordered identifier with a random suffix (UUIDv7).
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Subscribe registers fn for change notifications and returns its cancel func.
func (s *Store) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	s.subSeq++
	id := s.subSeq
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Snapshot returns a deep copy of the latest committed collection.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Version: s.version, Tasks: domain.CloneTasks(s.tasks)}
}

// Tasks returns a deep copy of the current collection.
func (s *Store) Tasks() []domain.Task {
	return s.Snapshot().Tasks
}

// Get returns a copy of the task with id.
func (s *Store) Get(id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := IndexOf(s.tasks, id)
	if idx < 0 {
		return domain.Task{}, false
	}
	return s.tasks[idx].Clone(), true
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Add creates a task from text and returns it. Blank text is ignored.
func (s *Store) Add(text string) (domain.Task, bool) {
	var created domain.Task
	ok := s.mutate("add", func(tasks []domain.Task) ([]domain.Task, bool) {
		id := s.uniqueID(tasks)
		out, changed := Add(tasks, id, text, s.now())
		if changed {
			created = out[0].Clone()
		}
		return out, changed
	})
	return created, ok
}

func (s *Store) ToggleCompleted(id string) bool {
	return s.mutate("toggle_completed", func(tasks []domain.Task) ([]domain.Task, bool) {
		return ToggleCompleted(tasks, id, s.now())
	})
}

func (s *Store) ToggleFavorite(id string) bool {
	return s.mutate("toggle_favorite", func(tasks []domain.Task) ([]domain.Task, bool) {
		return ToggleFavorite(tasks, id)
	})
}

func (s *Store) UpdateText(id, text string) bool {
	return s.mutate("update_text", func(tasks []domain.Task) ([]domain.Task, bool) {
		return UpdateText(tasks, id, text)
	})
}

// SetReminder arms a reminder at the given epoch milliseconds.
func (s *Store) SetReminder(id string, at int64) bool {
	return s.mutate("set_reminder", func(tasks []domain.Task) ([]domain.Task, bool) {
		return SetReminder(tasks, id, at)
	})
}

func (s *Store) ClearReminder(id string) bool {
	return s.mutate("clear_reminder", func(tasks []domain.Task) ([]domain.Task, bool) {
		return ClearReminder(tasks, id)
	})
}

// ClearReminderIf clears the reminder of id if it is still set to at.
func (s *Store) ClearReminderIf(id string, at int64) bool {
	return s.mutate("clear_fired_reminder", func(tasks []domain.Task) ([]domain.Task, bool) {
		return ClearReminderIf(tasks, id, at)
	})
}

// AddSubtask appends a subtask to parentID and returns it.
func (s *Store) AddSubtask(parentID, text string) (domain.Subtask, bool) {
	var created domain.Subtask
	ok := s.mutate("add_subtask", func(tasks []domain.Task) ([]domain.Task, bool) {
		out, changed := AddSubtask(tasks, parentID, s.uniqueID(tasks), text)
		if changed {
			parent := out[IndexOf(out, parentID)]
			created = parent.Subtasks[len(parent.Subtasks)-1]
		}
		return out, changed
	})
	return created, ok
}

func (s *Store) UpdateSubtask(parentID, subtaskID, text string) bool {
	return s.mutate("update_subtask", func(tasks []domain.Task) ([]domain.Task, bool) {
		return UpdateSubtask(tasks, parentID, subtaskID, text)
	})
}

func (s *Store) ToggleSubtask(parentID, subtaskID string) bool {
	return s.mutate("toggle_subtask", func(tasks []domain.Task) ([]domain.Task, bool) {
		return ToggleSubtask(tasks, parentID, subtaskID)
	})
}

func (s *Store) DeleteSubtask(parentID, subtaskID string) bool {
	return s.mutate("delete_subtask", func(tasks []domain.Task) ([]domain.Task, bool) {
		return DeleteSubtask(tasks, parentID, subtaskID)
	})
}

func (s *Store) Delete(id string) bool {
	return s.mutate("delete", func(tasks []domain.Task) ([]domain.Task, bool) {
		return Delete(tasks, id)
	})
}

func (s *Store) ClearCompleted() bool {
	return s.mutate("clear_completed", ClearCompleted)
}

func (s *Store) Reorder(movedID, targetID string) bool {
	return s.mutate("reorder", func(tasks []domain.Task) ([]domain.Task, bool) {
		return Reorder(tasks, movedID, targetID)
	})
}

func (s *Store) mutate(op string, fn func([]domain.Task) ([]domain.Task, bool)) bool {
	s.mu.Lock()
	next, changed := fn(s.tasks)
	if !changed {
		s.mu.Unlock()
		return false
	}
	s.tasks = next
	s.version++
	snap := Snapshot{Version: s.version, Tasks: domain.CloneTasks(next)}
	s.mu.Unlock()

	s.logger.Debug("tasks mutated",
		zap.String("op", op),
		zap.Uint64("version", snap.Version),
		zap.Int("count", len(snap.Tasks)))
	s.notify(snap)
	return true
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(snap)
	}
}

// uniqueID draws ids until one is unused by any task or subtask. Only called
// with s.mu held.
func (s *Store) uniqueID(tasks []domain.Task) string {
	for {
		id := s.newID()
		if !idInUse(tasks, id) {
			return id
		}
		s.logger.Warn("generated id collided, retrying", zap.String("id", id))
	}
}

func (s *Store) now() int64 {
	return s.clock.Now().UnixMilli()
}

func idInUse(tasks []domain.Task, id string) bool {
	for i := range tasks {
		if tasks[i].ID == id || tasks[i].SubtaskIndex(id) >= 0 {
			return true
		}
	}
	return false
}
