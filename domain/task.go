package domain

// Subtask is a text and completion child item scoped to one Task.
type Subtask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task represents a top-level to-do item. Timestamps are milliseconds since the Unix epoch.
type Task struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Completed   bool      `json:"completed"`
	IsFavorite  bool      `json:"isFavorite"`
	ReminderAt  *int64    `json:"reminderAt"`
	Subtasks    []Subtask `json:"subtasks"`
	CreatedAt   int64     `json:"createdAt"`
	CompletedAt *int64    `json:"completedAt"`
}

// ReminderDue reports whether the reminder should fire at now.
func (t *Task) ReminderDue(now int64) bool {
	return t != nil && !t.Completed && t.ReminderAt != nil && *t.ReminderAt <= now
}

// SubtaskIndex returns the index of the subtask with the given id, or -1.
func (t *Task) SubtaskIndex(id string) int {
	if t == nil {
		return -1
	}
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy that shares no memory with t.
func (t Task) Clone() Task {
	out := t
	out.ReminderAt = copyTime(t.ReminderAt)
	out.CompletedAt = copyTime(t.CompletedAt)
	out.Subtasks = make([]Subtask, len(t.Subtasks))
	copy(out.Subtasks, t.Subtasks)
	return out
}

// CloneTasks deep-copies a collection, preserving order. A nil input yields an empty slice.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].Clone()
	}
	return out
}

// Millis returns a pointer to a copy of ts.
func Millis(ts int64) *int64 {
	return &ts
}

func copyTime(ts *int64) *int64 {
	if ts == nil {
		return nil
	}
	v := *ts
	return &v
}
