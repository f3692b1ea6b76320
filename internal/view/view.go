// Package view derives display lists from the stored order. It never changes
// the store; sorting here is presentation only.
package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fastygo/flow/domain"
)

// Filter selects which tasks are listed.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter accepts "", "all", "active" and "completed" in any case.
func ParseFilter(raw string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q", raw)
	}
}

// Counts summarizes a collection.
type Counts struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

func Count(tasks []domain.Task) Counts {
	var c Counts
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}

// Apply filters tasks and orders them for display: active before completed,
// favorites first among active tasks, store order otherwise.
func Apply(tasks []domain.Task, f Filter) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		switch f {
		case FilterActive:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i]) < rank(out[j])
	})
	return out
}

func rank(t domain.Task) int {
	switch {
	case t.Completed:
		return 2
	case t.IsFavorite:
		return 0
	default:
		return 1
	}
}
