package services

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/contact"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/message"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/status"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/events"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/repository"
	whatsapp_errors "github.com/badalku27/WhatsApp-Web-Clone/pkg/errors"
)

// captureBroadcaster records every published event.
type captureBroadcaster struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *captureBroadcaster) Publish(_ context.Context, evt events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
	return nil
}

func (b *captureBroadcaster) byType(eventType string) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.Event
	for _, evt := range b.events {
		if evt.Type == eventType {
			out = append(out, evt)
		}
	}
	return out
}

// fakeMessageRepo is an in-memory MessageRepository with the same
// ordering and transition semantics as the Mongo implementation.
type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []message.Message
}

func (r *fakeMessageRepo) Create(_ context.Context, m *message.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *m)
	return nil
}

func (r *fakeMessageRepo) AppendOrSkip(_ context.Context, m message.Message) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.messages {
		if existing.ID == m.ID {
			return false, nil
		}
	}
	r.messages = append(r.messages, m)
	return true, nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id string) (message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id || (m.MetaMsgID != "" && m.MetaMsgID == id) {
			return m, nil
		}
	}
	return message.Message{}, whatsapp_errors.ErrNotFound
}

func (r *fakeMessageRepo) UpdateStatus(_ context.Context, id string, next message.Status) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var modified int64
	for i, m := range r.messages {
		if m.ID != id && (m.MetaMsgID == "" || m.MetaMsgID != id) {
			continue
		}
		if m.Status.CanAdvanceTo(next) {
			r.messages[i].Status = next
			modified++
		}
	}
	return modified, nil
}

func (r *fakeMessageRepo) ListByContact(_ context.Context, waID string) ([]message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []message.Message
	for _, m := range r.messages {
		if m.WaID == waID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *fakeMessageRepo) DeleteAllForContact(_ context.Context, waID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []message.Message
	var deleted int64
	for _, m := range r.messages {
		if m.WaID == waID {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	r.messages = kept
	return deleted, nil
}

func (r *fakeMessageRepo) ListChats(_ context.Context) ([]repository.ChatRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	latest := make(map[string]message.Message)
	for _, m := range r.messages {
		if prev, ok := latest[m.WaID]; !ok || m.Timestamp.After(prev.Timestamp) {
			latest[m.WaID] = m
		}
	}
	rows := make([]repository.ChatRow, 0, len(latest))
	for waID, m := range latest {
		rows = append(rows, repository.ChatRow{WaID: waID, Name: m.Name, LastMessage: m})
	}
	sort.Slice(rows, func(i, j int) bool {
		ti, tj := rows[i].LastMessage.Timestamp, rows[j].LastMessage.Timestamp
		if ti.Equal(tj) {
			return rows[i].WaID < rows[j].WaID
		}
		return ti.After(tj)
	})
	return rows, nil
}

// fakeStatusRepo is an in-memory StatusRepository.
type fakeStatusRepo struct {
	mu          sync.Mutex
	collections []status.Collection
}

func (r *fakeStatusRepo) PushItem(_ context.Context, waID, name string, item status.Item) (status.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.collections {
		if r.collections[i].WaID == waID {
			r.collections[i].Items = append(r.collections[i].Items, item)
			r.collections[i].LastUpdated = item.Timestamp
			return r.collections[i], nil
		}
	}
	c := status.Collection{WaID: waID, Name: name, Items: []status.Item{item}, LastUpdated: item.Timestamp}
	r.collections = append(r.collections, c)
	return c, nil
}

func (r *fakeStatusRepo) ListAll(_ context.Context) ([]status.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]status.Collection, len(r.collections))
	copy(out, r.collections)
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastUpdated.After(out[j].LastUpdated) })
	return out, nil
}

func (r *fakeStatusRepo) PullItem(_ context.Context, waID, itemID string) (status.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.collections {
		if r.collections[i].WaID != waID {
			continue
		}
		var kept []status.Item
		for _, item := range r.collections[i].Items {
			if item.ID != itemID {
				kept = append(kept, item)
			}
		}
		r.collections[i].Items = kept
		return r.collections[i], nil
	}
	return status.Collection{}, whatsapp_errors.ErrNotFound
}

func (r *fakeStatusRepo) DeleteCollection(_ context.Context, waID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.collections {
		if r.collections[i].WaID == waID {
			r.collections = append(r.collections[:i], r.collections[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// fakeContactRepo is an in-memory ContactRepository with the same
// merge semantics as the Mongo implementation.
type fakeContactRepo struct {
	mu       sync.Mutex
	contacts map[string]contact.Contact
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: make(map[string]contact.Contact)}
}

func (r *fakeContactRepo) Merge(_ context.Context, c contact.Contact) (contact.Contact, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.contacts[c.WaID]
	if !ok {
		existing = contact.Contact{WaID: c.WaID}
	}
	changed := existing.Merge(c.Name, c.ProfilePic)
	r.contacts[c.WaID] = existing
	return existing, changed, nil
}

func (r *fakeContactRepo) Get(_ context.Context, waID string) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[waID]
	if !ok {
		return contact.Contact{}, whatsapp_errors.ErrNotFound
	}
	return c, nil
}

func (r *fakeContactRepo) GetMany(_ context.Context, waIDs []string) (map[string]contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]contact.Contact)
	for _, waID := range waIDs {
		if c, ok := r.contacts[waID]; ok {
			out[waID] = c
		}
	}
	return out, nil
}

func (r *fakeContactRepo) SetAvatar(_ context.Context, waID, name, profilePic string) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[waID]
	if !ok {
		c = contact.Contact{WaID: waID}
	}
	c.ProfilePic = profilePic
	if name != "" {
		c.Name = name
	}
	r.contacts[waID] = c
	return c, nil
}

func (r *fakeContactRepo) ClearAvatar(_ context.Context, waID string) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[waID]
	if !ok {
		return contact.Contact{}, whatsapp_errors.ErrNotFound
	}
	c.ProfilePic = ""
	r.contacts[waID] = c
	return c, nil
}

func contactWith(waID, name, profilePic string) contact.Contact {
	return contact.Contact{WaID: waID, Name: name, ProfilePic: profilePic}
}

// fakeMediaStore returns a predictable URL without touching disk.
type fakeMediaStore struct {
	saved []string
}

func (s *fakeMediaStore) Save(_ context.Context, filename string, _ io.Reader) (string, error) {
	s.saved = append(s.saved, filename)
	return "/uploads/" + filename, nil
}
