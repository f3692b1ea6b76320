package transport

import (
	"bytes"

	"github.com/fastygo/flow/domain"
)

// CommandMeta is echoed in the envelope meta of command responses.
type CommandMeta struct {
	Command   string `json:"command"`
	RequestID string `json:"request_id,omitempty"`
}

// Payload returns body, or nil when it holds only whitespace.
func Payload(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	return trimmed
}

// ValidName reports whether a command name from the URL is well formed.
func ValidName(name string) error {
	if name == "" || len(name) > 64 {
		return domain.NewError(domain.ErrCodeInvalid, "missing command name")
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return domain.NewError(domain.ErrCodeInvalid, "malformed command name")
		}
	}
	return nil
}
