package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCLI(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("STORAGE_DRIVER", "bolt")
	t.Setenv("BOLTDB_PATH", filepath.Join(dir, "flow.db"))
	t.Setenv("TIME_ZONE", "UTC")
}

func flowctl(t *testing.T, args ...string) string {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), args, &out, &errOut)
	require.NoError(t, err, errOut.String())
	return out.String()
}

func flowctlErr(t *testing.T, args ...string) error {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), args, &out, &errOut)
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "Error:")
	return err
}

// addedID extracts the short id from "Added <id>  <text>".
func addedID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 2, out)
	require.Equal(t, "Added", fields[0])
	return fields[1]
}

func TestCLI_TaskLifecycle(t *testing.T) {
	setupCLI(t)

	assert.Contains(t, flowctl(t, "list"), "No tasks.")

	id := addedID(t, flowctl(t, "add", "Buy", "milk"))
	out := flowctl(t, "list")
	assert.Contains(t, out, "[ ] Buy milk")
	assert.Contains(t, out, "1 active · 0 completed")

	assert.Contains(t, flowctl(t, "fav", id), "Starred/unstarred")
	assert.Contains(t, flowctl(t, "list"), "[ ] ★ Buy milk")

	assert.Contains(t, flowctl(t, "edit", id, "Buy", "oat", "milk"), "Updated")
	assert.Contains(t, flowctl(t, "edit", id, "Buy", "oat", "milk"), "No change")

	assert.Contains(t, flowctl(t, "remind", id, "+10m"), "Reminder for "+id)
	assert.Contains(t, flowctl(t, "list"), " · remind ")
	assert.Contains(t, flowctl(t, "unremind", id), "Cleared reminder on")
	assert.NotContains(t, flowctl(t, "list"), " · remind ")

	assert.Contains(t, flowctl(t, "done", id), "Toggled")
	out = flowctl(t, "list", "--filter", "completed")
	assert.Contains(t, out, "[x] ★ Buy oat milk")
	assert.Contains(t, out, " · done ")
	assert.Contains(t, flowctl(t, "list", "-f", "active"), "No tasks.")

	assert.Contains(t, flowctl(t, "clear-completed"), "Removed 1 completed task(s)")
	assert.Contains(t, flowctl(t, "list"), "No tasks.")
}

func TestCLI_Subtasks(t *testing.T) {
	setupCLI(t)
	parent := addedID(t, flowctl(t, "add", "Groceries"))

	sub := addedID(t, flowctl(t, "sub", "add", parent, "eggs"))
	assert.Contains(t, flowctl(t, "list"), "[ ] eggs  "+sub)

	assert.Contains(t, flowctl(t, "sub", "done", parent, sub), "Toggled")
	assert.Contains(t, flowctl(t, "sub", "edit", parent, sub, "a dozen eggs"), "Updated")
	assert.Contains(t, flowctl(t, "list"), "[x] a dozen eggs")

	assert.Contains(t, flowctl(t, "sub", "rm", parent, sub), "Deleted")
	assert.NotContains(t, flowctl(t, "list"), "eggs")
}

func TestCLI_MoveAndRemove(t *testing.T) {
	setupCLI(t)
	first := addedID(t, flowctl(t, "add", "first"))
	second := addedID(t, flowctl(t, "add", "second"))

	// Newest is on top: second, first.
	out := flowctl(t, "list")
	assert.Less(t, strings.Index(out, "second"), strings.Index(out, "first"))

	assert.Contains(t, flowctl(t, "move", first, second), "Moved")
	out = flowctl(t, "list")
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))

	assert.Contains(t, flowctl(t, "rm", second), "Deleted")
	assert.NotContains(t, flowctl(t, "list"), "second")
}

func TestCLI_Errors(t *testing.T) {
	setupCLI(t)
	id := addedID(t, flowctl(t, "add", "x"))

	assert.ErrorContains(t, flowctlErr(t, "done", "zzzzzz"), `no id matches "zzzzzz"`)
	assert.ErrorContains(t, flowctlErr(t, "remind", id, "later"), "unrecognized reminder time")
	assert.ErrorContains(t, flowctlErr(t, "list", "--filter", "someday"), "unknown filter")
	assert.ErrorContains(t, flowctlErr(t, "add", "   "), "task text is empty")
	assert.ErrorContains(t, flowctlErr(t, "--driver", "sqlite", "list"), "STORAGE_DRIVER")
}

func TestCLI_MemoryDriverDoesNotPersist(t *testing.T) {
	setupCLI(t)
	flowctl(t, "--driver", "memory", "add", "gone")
	assert.Contains(t, flowctl(t, "--driver", "memory", "list"), "No tasks.")
}

func TestMatchID(t *testing.T) {
	ids := []string{"0190a1b2-aaaa-7000-8000-000000000001", "0190a1b2-aaaa-7000-8000-000000000002"}
	self := func(s string) string { return s }

	got, err := matchID("00000002", ids, self)
	require.NoError(t, err)
	assert.Equal(t, ids[1], got)

	got, err = matchID(ids[0], ids, self)
	require.NoError(t, err)
	assert.Equal(t, ids[0], got)

	_, err = matchID("0190a1b2", ids, self)
	assert.ErrorContains(t, err, "ambiguous")
}
