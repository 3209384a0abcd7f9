package audit

import (
	"time"

	"github.com/mssola/useragent"

	"penguinlens/internal/filter"
)

// Action names what happened.
type Action string

const ActionExportDownloaded Action = "export_downloaded"

// Event records one served download. SessionID is empty for stateless
// requests.
type Event struct {
	Action    Action           `json:"action"`
	SessionID string           `json:"session_id,omitempty"`
	Sex       string           `json:"sex"`
	Rows      int              `json:"rows"`
	Selection filter.Selection `json:"selection"`
	Client    string           `json:"client"`
	RequestID string           `json:"request_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// ClientFamily reduces a User-Agent header to its browser name, "bot" for
// crawlers, or "unknown".
func ClientFamily(userAgent string) string {
	if userAgent == "" {
		return "unknown"
	}
	ua := useragent.New(userAgent)
	if ua.Bot() {
		return "bot"
	}
	name, _ := ua.Browser()
	if name == "" {
		return "unknown"
	}
	return name
}
