package status

import (
	"time"

	whatsapp_errors "github.com/badalku27/WhatsApp-Web-Clone/pkg/errors"
)

// TTL is how long a posted item stays visible.
const TTL = 24 * time.Hour

// Kind is the content type of an ephemeral status item.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

func (k Kind) Valid() bool {
	return k == KindText || k == KindImage || k == KindVideo
}

// Item is a single ephemeral post inside a contact's collection.
type Item struct {
	ID        string    `bson:"id" json:"id"`
	Kind      Kind      `bson:"type" json:"type"`
	Text      string    `bson:"text,omitempty" json:"text,omitempty"`
	MediaURL  string    `bson:"mediaUrl,omitempty" json:"mediaUrl,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	ExpiresAt time.Time `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}

// Visible reports whether the item should appear in reads at the given
// instant. Items without an expiry never expire.
func (i Item) Visible(now time.Time) bool {
	return i.ExpiresAt.IsZero() || i.ExpiresAt.After(now)
}

// Validate enforces kind/payload consistency: text items carry text,
// media items carry a media reference, never both requirements mixed.
func (i Item) Validate() error {
	if !i.Kind.Valid() {
		return whatsapp_errors.ErrInvalidInput
	}
	switch i.Kind {
	case KindText:
		if i.Text == "" {
			return whatsapp_errors.ErrInvalidInput
		}
	case KindImage, KindVideo:
		if i.MediaURL == "" {
			return whatsapp_errors.ErrInvalidInput
		}
	}
	return nil
}

// Collection is the per-contact document in status_updates, holding
// the contact's items in insertion order.
type Collection struct {
	WaID        string    `bson:"wa_id" json:"wa_id"`
	Name        string    `bson:"name,omitempty" json:"name,omitempty"`
	ProfilePic  string    `bson:"-" json:"profilePic,omitempty"`
	Items       []Item    `bson:"items" json:"items"`
	LastUpdated time.Time `bson:"lastUpdated" json:"lastUpdated"`
}

// VisibleItems returns the items not yet expired at now, preserving
// insertion order.
func (c Collection) VisibleItems(now time.Time) []Item {
	visible := make([]Item, 0, len(c.Items))
	for _, item := range c.Items {
		if item.Visible(now) {
			visible = append(visible, item)
		}
	}
	return visible
}
