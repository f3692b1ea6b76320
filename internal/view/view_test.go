package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/flow/domain"
)

func order(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

var sample = []domain.Task{
	{ID: "a"},
	{ID: "b", Completed: true, IsFavorite: true},
	{ID: "c", IsFavorite: true},
	{ID: "d", Completed: true},
	{ID: "e"},
	{ID: "f", IsFavorite: true},
}

func TestApply_DisplayOrder(t *testing.T) {
	assert.Equal(t, []string{"c", "f", "a", "e", "b", "d"}, order(Apply(sample, FilterAll)))
	assert.Equal(t, []string{"c", "f", "a", "e"}, order(Apply(sample, FilterActive)))
	assert.Equal(t, []string{"b", "d"}, order(Apply(sample, FilterCompleted)), "favorites do not lift completed tasks")
	assert.Equal(t, "a", sample[0].ID, "input order untouched")
}

func TestCount(t *testing.T) {
	assert.Equal(t, Counts{Active: 4, Completed: 2}, Count(sample))
	assert.Equal(t, Counts{}, Count(nil))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(" Active ")
	require.NoError(t, err)
	assert.Equal(t, FilterActive, f)

	f, err = ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	_, err = ParseFilter("starred")
	assert.Error(t, err)
}
