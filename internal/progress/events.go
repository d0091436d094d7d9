package progress

import "time"

const (
	EventStarted  = "compare.started"
	EventPage     = "compare.page"
	EventMatching = "compare.matching"
	EventBatch    = "compare.batch"
	EventDone     = "compare.done"
	EventFailed   = "compare.failed"
)

// Event is one progress update for a comparison request, broadcast to every
// connected websocket client. Fields are filled per event type.
type Event struct {
	Type      string    `json:"type"`
	RequestID string    `json:"request_id"`
	Usernames []string  `json:"usernames,omitempty"`
	Username  string    `json:"username,omitempty"`
	Page      int       `json:"page,omitempty"`
	Entries   int       `json:"entries,omitempty"`
	Done      int       `json:"done,omitempty"`
	Total     int       `json:"total,omitempty"`
	Message   string    `json:"message,omitempty"`
	At        time.Time `json:"at"`
}
