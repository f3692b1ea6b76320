package transport

import (
	"bufio"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/fastygo/flow/domain"
)

// WriteEvent writes ev as one server-sent event frame and flushes it.
func WriteEvent(w *bufio.Writer, ev domain.Event) error {
	data, err := sonic.ConfigStd.Marshal(ev)
	if err != nil {
		return err
	}
	if ev.Version > 0 {
		if _, err := fmt.Fprintf(w, "id: %d\n", ev.Version); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, data); err != nil {
		return err
	}
	return w.Flush()
}

// WriteComment writes an SSE comment line, used as a keep-alive.
func WriteComment(w *bufio.Writer, text string) error {
	if _, err := fmt.Fprintf(w, ": %s\n\n", text); err != nil {
		return err
	}
	return w.Flush()
}
