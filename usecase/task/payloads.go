package task

import (
	"github.com/fastygo/flow/domain"
	"github.com/fastygo/flow/internal/view"
)

type IDPayload struct {
	ID string `json:"id"`
}

// TextPayload serves add (Text only) and updateText.
type TextPayload struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

type ReorderPayload struct {
	MovedID  string `json:"movedId"`
	TargetID string `json:"targetId"`
}

// ReminderPayload carries the fire time in epoch milliseconds.
type ReminderPayload struct {
	ID string `json:"id"`
	At int64  `json:"at"`
}

type SubtaskPayload struct {
	TaskID    string `json:"taskId"`
	SubtaskID string `json:"subtaskId,omitempty"`
	Text      string `json:"text,omitempty"`
}

type ListParams struct {
	Filter string `json:"filter"`
}

// Result is returned by every command with the collection as committed after it.
type Result struct {
	Changed bool            `json:"changed"`
	Version uint64          `json:"version"`
	Task    *domain.Task    `json:"task,omitempty"`
	Subtask *domain.Subtask `json:"subtask,omitempty"`
	Tasks   []domain.Task   `json:"tasks"`
}

// Item is a task with its rendered lifetime line.
type Item struct {
	domain.Task
	Lifetime string `json:"lifetime"`
}

type ListResult struct {
	Version uint64      `json:"version"`
	Filter  view.Filter `json:"filter"`
	Tasks   []Item      `json:"tasks"`
	Counts  view.Counts `json:"counts"`
}
