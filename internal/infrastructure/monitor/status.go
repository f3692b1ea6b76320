package monitor

import (
	"time"

	"github.com/fastygo/flow/domain"
	"github.com/fastygo/flow/internal/events"
	"github.com/fastygo/flow/internal/persistence"
)

type Status struct {
	Storage   StorageStatus           `json:"storage"`
	Persist   persistence.WriterStats `json:"persist"`
	Stream    events.Stats            `json:"stream"`
	Reminder  ReminderStatus          `json:"reminder"`
	Tasks     int                     `json:"tasks"`
	LastCheck time.Time               `json:"last_check"`
}

type StorageStatus struct {
	Driver string `json:"driver"`
	Online bool   `json:"online"`
	Error  string `json:"error,omitempty"`
}

type ReminderStatus struct {
	Flashing bool             `json:"flashing"`
	Toast    *domain.Reminder `json:"toast,omitempty"`
}

// Healthy reports whether the service can persist changes. A save that failed
// and has not been followed by a successful one counts as unhealthy.
func (s Status) Healthy() bool {
	return s.Storage.Online && s.Persist.LastError == ""
}
