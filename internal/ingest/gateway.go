package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/message"
	whatsapp_errors "github.com/badalku27/WhatsApp-Web-Clone/pkg/errors"
	"github.com/badalku27/WhatsApp-Web-Clone/pkg/logger"
)

// Kind discriminates the two payload shapes after normalization.
type Kind string

const (
	KindMessages Kind = "messages"
	KindStatuses Kind = "statuses"
)

// MessageEntry is one externally-sourced message. Timestamps are
// epoch seconds; zero means "now".
type MessageEntry struct {
	ID        string `json:"id"`
	MetaMsgID string `json:"meta_msg_id"`
	WaID      string `json:"wa_id"`
	Name      string `json:"name"`
	Direction string `json:"direction"`
	Type      string `json:"type"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	Status    string `json:"status"`
}

// StatusEntry carries a delivery-status transition for a message
// identified by id or meta_msg_id.
type StatusEntry struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type payload struct {
	WaID     string         `json:"wa_id"`
	Name     string         `json:"name"`
	Messages []MessageEntry `json:"messages"`
	Statuses []StatusEntry  `json:"statuses"`
}

// Batch is a normalized payload with an explicit kind tag. The wire
// shape is duck-typed ("has messages" vs "has statuses"); everything
// downstream of Normalize works on the tagged form.
type Batch struct {
	Kind     Kind
	WaID     string
	Name     string
	Messages []MessageEntry
	Statuses []StatusEntry
}

// Normalize parses a raw payload and tags its shape. Unknown shapes
// are rejected outright rather than half-applied.
func Normalize(raw []byte) (Batch, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Batch{}, whatsapp_errors.ErrUnknownPayload
	}
	switch {
	case len(p.Messages) > 0:
		return Batch{Kind: KindMessages, WaID: p.WaID, Name: p.Name, Messages: p.Messages}, nil
	case len(p.Statuses) > 0:
		return Batch{Kind: KindStatuses, Statuses: p.Statuses}, nil
	default:
		return Batch{}, whatsapp_errors.ErrUnknownPayload
	}
}

// Summary reports what a batch did.
type Summary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// MessageSink is the slice of the message service the gateway needs.
type MessageSink interface {
	ApplyExternal(ctx context.Context, m message.Message) (bool, error)
	ApplyStatusUpdate(ctx context.Context, id string, next message.Status) (int64, error)
}

// Gateway reconciles external payload batches into the message store.
// It holds no state of its own; malformed entries are skipped and
// counted instead of aborting the batch.
type Gateway struct {
	sink   MessageSink
	logger *logger.Logger
}

func NewGateway(sink MessageSink, l *logger.Logger) *Gateway {
	return &Gateway{sink: sink, logger: l}
}

// ApplyRaw normalizes and applies one payload.
func (g *Gateway) ApplyRaw(ctx context.Context, raw []byte) (Summary, error) {
	batch, err := Normalize(raw)
	if err != nil {
		return Summary{}, err
	}
	return g.Apply(ctx, batch)
}

// Apply runs a normalized batch against the message store.
func (g *Gateway) Apply(ctx context.Context, batch Batch) (Summary, error) {
	switch batch.Kind {
	case KindMessages:
		return g.applyMessages(ctx, batch)
	case KindStatuses:
		return g.applyStatuses(ctx, batch)
	default:
		return Summary{}, whatsapp_errors.ErrUnknownPayload
	}
}

func (g *Gateway) applyMessages(ctx context.Context, batch Batch) (Summary, error) {
	var summary Summary
	for _, entry := range batch.Messages {
		msg, ok := g.toMessage(batch, entry)
		if !ok {
			summary.Skipped++
			continue
		}

		inserted, err := g.sink.ApplyExternal(ctx, msg)
		if err != nil {
			// Store outages abort the batch; a bad record does not.
			if errors.Is(err, whatsapp_errors.ErrInvalidInput) {
				summary.Skipped++
				continue
			}
			return summary, err
		}
		if inserted {
			summary.Inserted++
			continue
		}

		// Existing message: only the status may advance.
		if entry.Status != "" {
			if n, err := g.sink.ApplyStatusUpdate(ctx, msg.ID, msg.Status); err == nil && n > 0 {
				summary.Updated++
			}
		}
	}
	return summary, nil
}

func (g *Gateway) applyStatuses(ctx context.Context, batch Batch) (Summary, error) {
	var summary Summary
	for _, entry := range batch.Statuses {
		next := message.Status(entry.Status)
		if entry.ID == "" || !next.Valid() {
			summary.Skipped++
			continue
		}
		n, err := g.sink.ApplyStatusUpdate(ctx, entry.ID, next)
		if err != nil {
			if errors.Is(err, whatsapp_errors.ErrInvalidInput) {
				summary.Skipped++
				continue
			}
			return summary, err
		}
		summary.Updated += int(n)
	}
	return summary, nil
}

// toMessage fills in batch-level fallbacks and defaults, reporting
// false for entries missing their identity.
func (g *Gateway) toMessage(batch Batch, entry MessageEntry) (message.Message, bool) {
	waID := entry.WaID
	if waID == "" {
		waID = batch.WaID
	}
	if entry.ID == "" || waID == "" {
		if g.logger != nil {
			g.logger.Warnf("skipping malformed message entry (id=%q wa_id=%q)", entry.ID, waID)
		}
		return message.Message{}, false
	}

	name := entry.Name
	if name == "" {
		name = batch.Name
	}
	direction := message.Direction(entry.Direction)
	if direction == "" {
		direction = message.DirectionInbound
	}
	msgType := entry.Type
	if msgType == "" {
		msgType = "text"
	}
	st := message.Status(entry.Status)
	if st == "" {
		st = message.StatusSent
	}
	ts := time.Now()
	if entry.Timestamp > 0 {
		ts = time.Unix(entry.Timestamp, 0)
	}

	msg := message.Message{
		ID:        entry.ID,
		MetaMsgID: entry.MetaMsgID,
		WaID:      waID,
		Name:      name,
		Direction: direction,
		Type:      msgType,
		Text:      entry.Text,
		Timestamp: ts,
		Status:    st,
	}
	if !direction.Valid() || !st.Valid() {
		return message.Message{}, false
	}
	return msg, true
}
