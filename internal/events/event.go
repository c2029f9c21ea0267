package events

import (
	"encoding/json"
	"time"
)

// Event is the wire envelope pushed to connected clients.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}

func New(eventType string, payload interface{}) Event {
	return Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
}

func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
