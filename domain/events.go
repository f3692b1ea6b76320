package domain

// Reminder is the payload of a fired reminder and of the active toast.
type Reminder struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Event names published on the outbound stream.
const (
	EventTasksChanged   = "tasks.changed"
	EventReminderFired  = "reminder.fired"
	EventToastDismissed = "toast.dismissed"
	EventTitleChanged   = "title.changed"
)

// Event is a single outbound notification for the UI layer.
type Event struct {
	Name    string `json:"name"`
	Version uint64 `json:"version,omitempty"`
	Payload any    `json:"payload,omitempty"`
}
