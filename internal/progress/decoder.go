// Package progress decodes the line-oriented progress protocol emitted
// by gvcore-cli on stdout.
package progress

import (
	"encoding/json"
	"strings"
)

// Event is one structured progress record from the processing pipeline.
type Event struct {
	Stage    string  `json:"stage"`
	Progress float64 `json:"progress"`
	Message  string  `json:"message,omitempty"`
}

// rawEvent distinguishes absent fields from zero values during decode.
type rawEvent struct {
	Stage    *string  `json:"stage"`
	Progress *float64 `json:"progress"`
	Message  *string  `json:"message"`
}

// Decode interprets one line of child stdout as a progress record.
// The pipeline interleaves plain diagnostic text with JSON records, so a
// line that does not match the record shape is reported as not-an-event
// rather than an error.
func Decode(line string) (Event, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || !strings.HasPrefix(trimmed, "{") {
		return Event{}, false
	}

	var raw rawEvent
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return Event{}, false
	}
	if raw.Stage == nil || raw.Progress == nil {
		return Event{}, false
	}

	event := Event{
		Stage:    *raw.Stage,
		Progress: *raw.Progress,
	}
	if raw.Message != nil {
		event.Message = *raw.Message
	}
	return event, true
}
