package events

import (
	"context"
	"fmt"
)

// Broadcaster fans an event out to all connected clients. Delivery is
// best-effort and at-most-once per subscriber; a failed broadcast must
// never affect the persisted state that triggered it, so callers log
// and continue on error.
type Broadcaster interface {
	Publish(ctx context.Context, event Event) error
}

// Sink receives marshalled events for local fan-out. Implemented by
// the websocket hub.
type Sink interface {
	BroadcastAll(payload []byte)
}

// HubBroadcaster pushes events straight to the in-process hub. Used
// when no Redis bridge is configured (single instance).
type HubBroadcaster struct {
	sink Sink
}

func NewHubBroadcaster(sink Sink) *HubBroadcaster {
	return &HubBroadcaster{sink: sink}
}

func (b *HubBroadcaster) Publish(_ context.Context, event Event) error {
	data, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}
	b.sink.BroadcastAll(data)
	return nil
}

// Publisher publishes raw payloads to a named channel. Implemented by
// the redis publisher.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// ChannelBroadcaster publishes events to a pub/sub channel. Every
// instance runs a bridge that feeds its local hub from that channel,
// so the publishing instance's clients receive the event through the
// subscription rather than directly.
type ChannelBroadcaster struct {
	publisher Publisher
	channel   string
}

func NewChannelBroadcaster(publisher Publisher, channel string) *ChannelBroadcaster {
	return &ChannelBroadcaster{publisher: publisher, channel: channel}
}

func (b *ChannelBroadcaster) Publish(ctx context.Context, event Event) error {
	data, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}
	if err := b.publisher.Publish(ctx, b.channel, data); err != nil {
		return fmt.Errorf("publish event %s: %w", event.Type, err)
	}
	return nil
}

// NopBroadcaster discards all events. Used by the ingest CLI, which
// has no connected clients.
type NopBroadcaster struct{}

func (NopBroadcaster) Publish(context.Context, Event) error { return nil }
