package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fastygo/flow/domain"
	"github.com/fastygo/flow/internal/timefmt"
	taskUC "github.com/fastygo/flow/usecase/task"
)

const shortID = 8

// short returns the random tail of an id. UUIDv7 ids share their leading
// timestamp digits, so the tail is what tells tasks apart.
func short(id string) string {
	if len(id) <= shortID {
		return id
	}
	return id[len(id)-shortID:]
}

func renderList(w io.Writer, list taskUC.ListResult, loc *time.Location) {
	if len(list.Tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
	}
	for _, item := range list.Tasks {
		renderItem(w, item, loc)
	}
	fmt.Fprintf(w, "\n%d active · %d completed\n", list.Counts.Active, list.Counts.Completed)
}

func renderItem(w io.Writer, item taskUC.Item, loc *time.Location) {
	var b strings.Builder
	b.WriteString(check(item.Completed))
	if item.IsFavorite {
		b.WriteString(" ★")
	}
	fmt.Fprintf(w, "%s  %s %s\n", short(item.ID), b.String(), item.Text)

	meta := item.Lifetime
	if item.ReminderAt != nil {
		meta += " · remind " + timefmt.FormatClockTime(*item.ReminderAt, loc)
	}
	fmt.Fprintf(w, "          %s\n", meta)
	for _, st := range item.Subtasks {
		renderSubtask(w, st)
	}
}

func renderSubtask(w io.Writer, st domain.Subtask) {
	fmt.Fprintf(w, "          %s %s  %s\n", check(st.Completed), st.Text, short(st.ID))
}

func check(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
