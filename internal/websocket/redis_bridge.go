package websocket

import (
	"context"
)

// Subscriber delivers payloads published on named channels.
// Implemented by the redis subscriber.
type Subscriber interface {
	Subscribe(ctx context.Context, channels []string, handler func(channel string, payload []byte)) error
}

// RedisBridge feeds events from the shared pub/sub channel into the
// local hub, so every instance's clients see events published by any
// instance.
type RedisBridge struct {
	subscriber Subscriber
	hub        *Hub
}

func NewRedisBridge(subscriber Subscriber, hub *Hub) *RedisBridge {
	return &RedisBridge{subscriber: subscriber, hub: hub}
}

func (b *RedisBridge) Run(ctx context.Context, channels []string) error {
	return b.subscriber.Subscribe(ctx, channels, func(_ string, payload []byte) {
		b.hub.BroadcastAll(payload)
	})
}
