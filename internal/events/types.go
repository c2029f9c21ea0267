package events

// Event type constants, following the domain.action convention.
const (
	EventTypeMessageCreated       = "message.created"
	EventTypeMessageStatusChanged = "message.status_changed"
	EventTypeChatDeleted          = "chat.deleted"

	EventTypeStatusItemCreated       = "status.item_created"
	EventTypeStatusItemDeleted       = "status.item_deleted"
	EventTypeStatusCollectionDeleted = "status.collection_deleted"

	EventTypeContactUpdated = "contact.updated"

	// Relayed from clients, never persisted.
	EventTypeTyping = "typing"
)

// Redis channel carrying every realtime event when the cross-instance
// bridge is enabled. Global fan-out: clients filter by wa_id.
const ChannelEvents = "channel:events"

// MessageStatusPayload accompanies message.status_changed.
type MessageStatusPayload struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ChatDeletedPayload accompanies chat.deleted.
type ChatDeletedPayload struct {
	WaID string `json:"wa_id"`
}

// StatusItemPayload accompanies status.item_created.
type StatusItemPayload struct {
	WaID string      `json:"wa_id"`
	Name string      `json:"name,omitempty"`
	Item interface{} `json:"item"`
}

// StatusItemDeletedPayload accompanies status.item_deleted.
type StatusItemDeletedPayload struct {
	WaID string `json:"wa_id"`
	ID   string `json:"id"`
}

// StatusCollectionDeletedPayload accompanies status.collection_deleted.
type StatusCollectionDeletedPayload struct {
	WaID string `json:"wa_id"`
}

// ContactUpdatedPayload accompanies contact.updated.
type ContactUpdatedPayload struct {
	WaID       string `json:"wa_id"`
	Name       string `json:"name"`
	ProfilePic string `json:"profilePic"`
}

// TypingPayload is relayed verbatim to all clients with a server-side
// timestamp attached.
type TypingPayload struct {
	WaID string `json:"wa_id"`
	At   int64  `json:"at"`
}
