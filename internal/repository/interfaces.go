package repository

import (
	"context"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/contact"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/message"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/status"
)

// ChatRow is one row of the chat-list projection: a contact and its
// most recent message. ProfilePic is filled in from the directory by
// the chat service.
type ChatRow struct {
	WaID        string          `bson:"wa_id" json:"wa_id"`
	Name        string          `bson:"name,omitempty" json:"name"`
	ProfilePic  string          `bson:"-" json:"profilePic"`
	LastMessage message.Message `bson:"lastMessage" json:"lastMessage"`
}

type MessageRepository interface {
	// Create inserts a new message. The id must not exist yet.
	Create(ctx context.Context, m *message.Message) error

	// AppendOrSkip inserts m if its id is absent and otherwise leaves
	// the stored creation fields untouched. Reports whether a new
	// document was inserted. Never errors on a duplicate id.
	AppendOrSkip(ctx context.Context, m message.Message) (inserted bool, err error)

	// GetByID returns the message whose id or meta_msg_id matches.
	GetByID(ctx context.Context, id string) (message.Message, error)

	// UpdateStatus advances the status of every message whose id or
	// meta_msg_id matches, skipping messages for which the transition
	// would move backward. Returns the number of messages updated; a
	// missing id is a no-op, not an error.
	UpdateStatus(ctx context.Context, id string, next message.Status) (int64, error)

	// ListByContact returns the contact's messages in ascending
	// timestamp order: the canonical conversation order.
	ListByContact(ctx context.Context, waID string) ([]message.Message, error)

	// DeleteAllForContact removes every message for the contact and
	// returns the number removed.
	DeleteAllForContact(ctx context.Context, waID string) (int64, error)

	// ListChats groups all messages by contact and returns each
	// contact's latest message, ordered by that message's timestamp
	// descending with wa_id ascending as the tie-break.
	ListChats(ctx context.Context) ([]ChatRow, error)
}

type StatusRepository interface {
	// PushItem appends an item to the contact's collection, creating
	// the collection if needed, and returns the updated collection.
	PushItem(ctx context.Context, waID, name string, item status.Item) (status.Collection, error)

	// ListAll returns every collection (expired items included),
	// ordered by lastUpdated descending.
	ListAll(ctx context.Context) ([]status.Collection, error)

	// PullItem removes one item from the contact's collection and
	// returns the updated collection. The collection itself is kept
	// even when it becomes empty.
	PullItem(ctx context.Context, waID, itemID string) (status.Collection, error)

	// DeleteCollection removes the contact's whole collection,
	// returning the number of documents removed (0 or 1).
	DeleteCollection(ctx context.Context, waID string) (int64, error)
}

type ContactRepository interface {
	// Merge upserts the directory entry with merge semantics: empty
	// incoming fields never clobber stored values. Returns the entry
	// after the write and whether any field changed.
	Merge(ctx context.Context, c contact.Contact) (contact.Contact, bool, error)

	Get(ctx context.Context, waID string) (contact.Contact, error)
	GetMany(ctx context.Context, waIDs []string) (map[string]contact.Contact, error)

	// SetAvatar overwrites the avatar (and the name when non-empty).
	SetAvatar(ctx context.Context, waID, name, profilePic string) (contact.Contact, error)

	// ClearAvatar sets the avatar to empty without deleting the entry.
	ClearAvatar(ctx context.Context, waID string) (contact.Contact, error)
}
