package message

import (
	"time"
)

// Direction marks who originated a message.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

func (d Direction) Valid() bool {
	return d == DirectionInbound || d == DirectionOutbound
}

// Status is the delivery state of a message. Transitions only move
// forward along sent -> delivered -> read, or jump to failed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
	StatusFailed    Status = "failed"
)

var statusRank = map[Status]int{
	StatusPending:   0,
	StatusSent:      1,
	StatusDelivered: 2,
	StatusRead:      3,
}

func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok || s == StatusFailed
}

// CanAdvanceTo reports whether a transition from s to next is allowed.
// Failed is terminal and reachable from any non-read state.
func (s Status) CanAdvanceTo(next Status) bool {
	if !next.Valid() {
		return false
	}
	if s == StatusFailed {
		return false
	}
	if next == StatusFailed {
		return s != StatusRead
	}
	return statusRank[next] > statusRank[s]
}

// PriorStates returns every status a message may hold immediately
// before transitioning to next. Used to build atomic forward-only
// status updates in the store.
func PriorStates(next Status) []Status {
	var priors []Status
	for _, s := range []Status{StatusPending, StatusSent, StatusDelivered, StatusRead} {
		if s.CanAdvanceTo(next) {
			priors = append(priors, s)
		}
	}
	return priors
}

// Message represents one unit of conversation content, stored in the
// processed_messages collection. Field names follow the external wire
// format so ingested webhook payloads map directly.
type Message struct {
	ID         string    `bson:"id" json:"id"`
	MetaMsgID  string    `bson:"meta_msg_id,omitempty" json:"meta_msg_id,omitempty"`
	WaID       string    `bson:"wa_id" json:"wa_id"`
	Name       string    `bson:"name,omitempty" json:"name,omitempty"`
	Direction  Direction `bson:"direction" json:"direction"`
	Type       string    `bson:"type" json:"type"`
	Text       string    `bson:"text,omitempty" json:"text,omitempty"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
	Status     Status    `bson:"status" json:"status"`
	ProfilePic string    `bson:"profilePic,omitempty" json:"profilePic,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Validate checks the fields required before a message may be stored.
func (m Message) Validate() error {
	if m.ID == "" || m.WaID == "" {
		return ErrIncomplete
	}
	if !m.Direction.Valid() {
		return ErrIncomplete
	}
	if !m.Status.Valid() {
		return ErrIncomplete
	}
	return nil
}
