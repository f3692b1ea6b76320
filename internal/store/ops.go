package store

import (
	"strings"

	"github.com/fastygo/flow/domain"
)

// The functions in this file are pure: they never modify their input and
// return the resulting collection together with whether anything changed.
// Invalid input (blank text, unknown ids) leaves the collection untouched.

// IndexOf returns the position of the task with id, or -1.
func IndexOf(tasks []domain.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Add prepends a new active task.
func Add(tasks []domain.Task, id, text string, now int64) ([]domain.Task, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || id == "" {
		return tasks, false
	}
	task := domain.Task{
		ID:        id,
		Text:      trimmed,
		Subtasks:  []domain.Subtask{},
		CreatedAt: now,
	}
	out := make([]domain.Task, 0, len(tasks)+1)
	out = append(out, task)
	out = append(out, tasks...)
	return out, true
}

// ToggleCompleted flips completion and stamps or clears CompletedAt.
func ToggleCompleted(tasks []domain.Task, id string, now int64) ([]domain.Task, bool) {
	return update(tasks, id, func(t *domain.Task) bool {
		t.Completed = !t.Completed
		if t.Completed {
			t.CompletedAt = domain.Millis(now)
		} else {
			t.CompletedAt = nil
		}
		return true
	})
}

func ToggleFavorite(tasks []domain.Task, id string) ([]domain.Task, bool) {
	return update(tasks, id, func(t *domain.Task) bool {
		t.IsFavorite = !t.IsFavorite
		return true
	})
}

func UpdateText(tasks []domain.Task, id, text string) ([]domain.Task, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return tasks, false
	}
	return update(tasks, id, func(t *domain.Task) bool {
		if t.Text == trimmed {
			return false
		}
		t.Text = trimmed
		return true
	})
}

func SetReminder(tasks []domain.Task, id string, at int64) ([]domain.Task, bool) {
	return update(tasks, id, func(t *domain.Task) bool {
		if t.ReminderAt != nil && *t.ReminderAt == at {
			return false
		}
		t.ReminderAt = domain.Millis(at)
		return true
	})
}

func ClearReminder(tasks []domain.Task, id string) ([]domain.Task, bool) {
	return update(tasks, id, func(t *domain.Task) bool {
		if t.ReminderAt == nil {
			return false
		}
		t.ReminderAt = nil
		return true
	})
}

// ClearReminderIf clears the reminder only while it is still armed at at, so a
// reminder set again after a fire is kept.
func ClearReminderIf(tasks []domain.Task, id string, at int64) ([]domain.Task, bool) {
	return update(tasks, id, func(t *domain.Task) bool {
		if t.ReminderAt == nil || *t.ReminderAt != at {
			return false
		}
		t.ReminderAt = nil
		return true
	})
}

// AddSubtask appends a subtask to the parent's sequence.
func AddSubtask(tasks []domain.Task, parentID, subtaskID, text string) ([]domain.Task, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || subtaskID == "" {
		return tasks, false
	}
	return update(tasks, parentID, func(t *domain.Task) bool {
		subs := make([]domain.Subtask, len(t.Subtasks), len(t.Subtasks)+1)
		copy(subs, t.Subtasks)
		t.Subtasks = append(subs, domain.Subtask{ID: subtaskID, Text: trimmed})
		return true
	})
}

func UpdateSubtask(tasks []domain.Task, parentID, subtaskID, text string) ([]domain.Task, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return tasks, false
	}
	return updateSubtask(tasks, parentID, subtaskID, func(s *domain.Subtask) bool {
		if s.Text == trimmed {
			return false
		}
		s.Text = trimmed
		return true
	})
}

func ToggleSubtask(tasks []domain.Task, parentID, subtaskID string) ([]domain.Task, bool) {
	return updateSubtask(tasks, parentID, subtaskID, func(s *domain.Subtask) bool {
		s.Completed = !s.Completed
		return true
	})
}

func DeleteSubtask(tasks []domain.Task, parentID, subtaskID string) ([]domain.Task, bool) {
	return update(tasks, parentID, func(t *domain.Task) bool {
		idx := t.SubtaskIndex(subtaskID)
		if idx < 0 {
			return false
		}
		subs := make([]domain.Subtask, 0, len(t.Subtasks)-1)
		subs = append(subs, t.Subtasks[:idx]...)
		t.Subtasks = append(subs, t.Subtasks[idx+1:]...)
		return true
	})
}

func Delete(tasks []domain.Task, id string) ([]domain.Task, bool) {
	idx := IndexOf(tasks, id)
	if idx < 0 {
		return tasks, false
	}
	out := make([]domain.Task, 0, len(tasks)-1)
	out = append(out, tasks[:idx]...)
	return append(out, tasks[idx+1:]...), true
}

// ClearCompleted drops every completed task, keeping the order of the rest.
func ClearCompleted(tasks []domain.Task) ([]domain.Task, bool) {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	if len(out) == len(tasks) {
		return tasks, false
	}
	return out, true
}

// Reorder moves movedID into the index targetID occupied before the move.
// Everything between the two positions shifts by one.
func Reorder(tasks []domain.Task, movedID, targetID string) ([]domain.Task, bool) {
	if movedID == targetID {
		return tasks, false
	}
	from, to := IndexOf(tasks, movedID), IndexOf(tasks, targetID)
	if from < 0 || to < 0 {
		return tasks, false
	}
	moved := tasks[from]
	out := make([]domain.Task, 0, len(tasks))
	out = append(out, tasks[:from]...)
	out = append(out, tasks[from+1:]...)
	out = append(out[:to], append([]domain.Task{moved}, out[to:]...)...)
	return out, true
}

// update applies fn to a copy of the task with id and swaps it into a copy of
// the collection when fn reports a change.
func update(tasks []domain.Task, id string, fn func(t *domain.Task) bool) ([]domain.Task, bool) {
	idx := IndexOf(tasks, id)
	if idx < 0 {
		return tasks, false
	}
	task := tasks[idx]
	if !fn(&task) {
		return tasks, false
	}
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	out[idx] = task
	return out, true
}

func updateSubtask(tasks []domain.Task, parentID, subtaskID string, fn func(s *domain.Subtask) bool) ([]domain.Task, bool) {
	return update(tasks, parentID, func(t *domain.Task) bool {
		idx := t.SubtaskIndex(subtaskID)
		if idx < 0 {
			return false
		}
		sub := t.Subtasks[idx]
		if !fn(&sub) {
			return false
		}
		subs := make([]domain.Subtask, len(t.Subtasks))
		copy(subs, t.Subtasks)
		subs[idx] = sub
		t.Subtasks = subs
		return true
	})
}
