// Package persistence maps the task collection to and from its stored blob.
package persistence

import (
	"bytes"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/fastygo/flow/domain"
)

var api = sonic.ConfigStd

// taskRecord is the loosely typed on-disk shape. Fields added after the first
// release are pointers so their absence is observable.
type taskRecord struct {
	ID          string           `json:"id"`
	Text        string           `json:"text"`
	Completed   bool             `json:"completed"`
	IsFavorite  *bool            `json:"isFavorite"`
	ReminderAt  *int64           `json:"reminderAt"`
	Subtasks    []*subtaskRecord `json:"subtasks"`
	CreatedAt   int64            `json:"createdAt"`
	CompletedAt *int64           `json:"completedAt"`
}

type subtaskRecord struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Decode parses a stored blob. Any structural problem (invalid JSON, a
// non-array document, null entries, wrong field types) fails the whole blob,
// and so does an empty or repeated task id, or a repeated subtask id within
// one task. completedAt is dropped from tasks that are not completed. Blank
// text and a completed task without completedAt are loaded unchanged.
func Decode(blob []byte) ([]domain.Task, error) {
	trimmed := bytes.TrimSpace(blob)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, domain.WrapError(domain.ErrCodeCorrupt, "decode tasks", fmt.Errorf("document is null"))
	}

	var records []*taskRecord
	if err := api.Unmarshal(trimmed, &records); err != nil {
		return nil, domain.WrapError(domain.ErrCodeCorrupt, "decode tasks", err)
	}

	tasks := make([]domain.Task, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		task, err := upgradeRecord(rec)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeCorrupt, fmt.Sprintf("decode task %d", i), err)
		}
		if _, dup := seen[task.ID]; dup {
			return nil, domain.WrapError(domain.ErrCodeCorrupt, fmt.Sprintf("decode task %d", i), fmt.Errorf("duplicate id %q", task.ID))
		}
		seen[task.ID] = struct{}{}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// upgradeRecord maps one record to the current schema, defaulting every field
// that older versions did not write:
//
//	isFavorite -> false
//	reminderAt -> null
//	subtasks   -> []
func upgradeRecord(rec *taskRecord) (domain.Task, error) {
	if rec == nil {
		return domain.Task{}, fmt.Errorf("record is null")
	}
	if rec.ID == "" {
		return domain.Task{}, fmt.Errorf("record has no id")
	}
	task := domain.Task{
		ID:          rec.ID,
		Text:        rec.Text,
		Completed:   rec.Completed,
		ReminderAt:  rec.ReminderAt,
		CreatedAt:   rec.CreatedAt,
		CompletedAt: rec.CompletedAt,
		Subtasks:    make([]domain.Subtask, 0, len(rec.Subtasks)),
	}
	if rec.IsFavorite != nil {
		task.IsFavorite = *rec.IsFavorite
	}
	if !task.Completed {
		task.CompletedAt = nil
	}
	subIDs := make(map[string]struct{}, len(rec.Subtasks))
	for j, sub := range rec.Subtasks {
		if sub == nil {
			return domain.Task{}, fmt.Errorf("subtask %d is null", j)
		}
		if _, dup := subIDs[sub.ID]; dup {
			return domain.Task{}, fmt.Errorf("subtask %d repeats id %q", j, sub.ID)
		}
		subIDs[sub.ID] = struct{}{}
		task.Subtasks = append(task.Subtasks, domain.Subtask{
			ID:        sub.ID,
			Text:      sub.Text,
			Completed: sub.Completed,
		})
	}
	return task, nil
}

// Encode serializes the full collection as a JSON array.
func Encode(tasks []domain.Task) ([]byte, error) {
	out := make([]domain.Task, len(tasks))
	for i, t := range tasks {
		if t.Subtasks == nil {
			t.Subtasks = []domain.Subtask{}
		}
		out[i] = t
	}
	return api.Marshal(out)
}
