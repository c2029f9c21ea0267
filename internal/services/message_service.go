package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/message"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/events"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/repository"
	whatsapp_errors "github.com/badalku27/WhatsApp-Web-Clone/pkg/errors"
	"github.com/badalku27/WhatsApp-Web-Clone/pkg/logger"
)

// Conversation is one contact's full message history with directory
// decoration.
type Conversation struct {
	WaID       string            `json:"wa_id"`
	Name       string            `json:"name"`
	ProfilePic string            `json:"profilePic"`
	Messages   []message.Message `json:"messages"`
}

type MessageService struct {
	repo        repository.MessageRepository
	directory   *ContactService
	broadcaster events.Broadcaster
	simulator   *DeliverySimulator
	logger      *logger.Logger
}

func NewMessageService(repo repository.MessageRepository, directory *ContactService, broadcaster events.Broadcaster, simulator *DeliverySimulator, l *logger.Logger) *MessageService {
	return &MessageService{
		repo:        repo,
		directory:   directory,
		broadcaster: broadcaster,
		simulator:   simulator,
		logger:      l,
	}
}

// Send stores a locally-originated outbound message and kicks off the
// delivered/read simulation for it.
func (s *MessageService) Send(ctx context.Context, waID, text, name, profilePic string) (message.Message, error) {
	if waID == "" || text == "" {
		return message.Message{}, whatsapp_errors.ErrInvalidInput
	}

	s.upsertDirectory(ctx, waID, name, profilePic)

	now := time.Now()
	msg := message.Message{
		ID:        "local_" + uuid.NewString(),
		WaID:      waID,
		Name:      name,
		Direction: message.DirectionOutbound,
		Type:      "text",
		Text:      text,
		Timestamp: now,
		Status:    message.StatusSent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, &msg); err != nil {
		return message.Message{}, err
	}

	s.publishCreated(ctx, msg)
	if s.simulator != nil {
		s.simulator.Schedule(msg.ID, msg.WaID)
	}
	return msg, nil
}

// Insert stores an outbound message with an explicit status and no
// delivery simulation. Kept for clients of the plain message-create
// endpoint.
func (s *MessageService) Insert(ctx context.Context, waID, text, name, profilePic string, st message.Status) (message.Message, error) {
	if waID == "" || text == "" {
		return message.Message{}, whatsapp_errors.ErrInvalidInput
	}
	if st == "" {
		st = message.StatusSent
	}
	if !st.Valid() {
		return message.Message{}, whatsapp_errors.ErrInvalidInput
	}

	s.upsertDirectory(ctx, waID, name, profilePic)

	now := time.Now()
	msg := message.Message{
		ID:         "local_" + uuid.NewString(),
		WaID:       waID,
		Name:       name,
		Direction:  message.DirectionOutbound,
		Type:       "text",
		Text:       text,
		Timestamp:  now,
		Status:     st,
		ProfilePic: profilePic,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, &msg); err != nil {
		return message.Message{}, err
	}
	s.publishCreated(ctx, msg)
	return msg, nil
}

// ApplyExternal reconciles one externally-sourced message via
// idempotent upsert. A replayed id is not an error; the stored
// creation fields win and only the status may advance.
func (s *MessageService) ApplyExternal(ctx context.Context, msg message.Message) (bool, error) {
	if err := msg.Validate(); err != nil {
		return false, whatsapp_errors.ErrInvalidInput
	}

	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	inserted, err := s.repo.AppendOrSkip(ctx, msg)
	if err != nil {
		return false, err
	}
	if inserted {
		s.upsertDirectory(ctx, msg.WaID, msg.Name, msg.ProfilePic)
		s.publishCreated(ctx, msg)
	}
	return inserted, nil
}

// ApplyStatusUpdate advances message status by id or meta_msg_id.
// Backward transitions leave no matching document and count zero.
func (s *MessageService) ApplyStatusUpdate(ctx context.Context, id string, next message.Status) (int64, error) {
	if id == "" || !next.Valid() {
		return 0, whatsapp_errors.ErrInvalidInput
	}
	modified, err := s.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		return 0, err
	}
	if modified > 0 {
		s.publishStatusChanged(ctx, id, next)
	}
	return modified, nil
}

// GetConversation returns the contact's messages in canonical order
// with the directory name and avatar attached.
func (s *MessageService) GetConversation(ctx context.Context, waID string) (Conversation, error) {
	if waID == "" {
		return Conversation{}, whatsapp_errors.ErrInvalidInput
	}
	msgs, err := s.repo.ListByContact(ctx, waID)
	if err != nil {
		return Conversation{}, err
	}

	conv := Conversation{WaID: waID, Messages: msgs}
	for _, m := range msgs {
		if m.Name != "" {
			conv.Name = m.Name
			break
		}
	}
	if c, err := s.directory.Get(ctx, waID); err == nil {
		conv.ProfilePic = c.ProfilePic
		if c.Name != "" {
			conv.Name = c.Name
		}
	}
	return conv, nil
}

// ListByContact returns the raw ordered message list for a contact.
func (s *MessageService) ListByContact(ctx context.Context, waID string) ([]message.Message, error) {
	if waID == "" {
		return nil, whatsapp_errors.ErrInvalidInput
	}
	return s.repo.ListByContact(ctx, waID)
}

// DeleteChat removes every message for the contact. Pending delivery
// simulation timers for that contact are cancelled so they cannot
// write to removed records.
func (s *MessageService) DeleteChat(ctx context.Context, waID string) (int64, error) {
	if waID == "" {
		return 0, whatsapp_errors.ErrInvalidInput
	}
	deleted, err := s.repo.DeleteAllForContact(ctx, waID)
	if err != nil {
		return 0, err
	}
	if s.simulator != nil {
		s.simulator.CancelContact(waID)
	}

	evt := events.New(events.EventTypeChatDeleted, events.ChatDeletedPayload{WaID: waID})
	if err := s.broadcaster.Publish(ctx, evt); err != nil && s.logger != nil {
		s.logger.Warnf("broadcast chat.deleted for %s failed: %s", waID, err)
	}
	return deleted, nil
}

func (s *MessageService) upsertDirectory(ctx context.Context, waID, name, profilePic string) {
	if err := s.directory.MergeUpsert(ctx, waID, name, profilePic); err != nil && s.logger != nil {
		s.logger.Warnf("directory upsert for %s failed: %s", waID, err)
	}
}

func (s *MessageService) publishCreated(ctx context.Context, msg message.Message) {
	if err := s.broadcaster.Publish(ctx, events.New(events.EventTypeMessageCreated, msg)); err != nil && s.logger != nil {
		s.logger.Warnf("broadcast message.created for %s failed: %s", msg.ID, err)
	}
}

func (s *MessageService) publishStatusChanged(ctx context.Context, id string, st message.Status) {
	evt := events.New(events.EventTypeMessageStatusChanged, events.MessageStatusPayload{
		ID:     id,
		Status: string(st),
	})
	if err := s.broadcaster.Publish(ctx, evt); err != nil && s.logger != nil {
		s.logger.Warnf("broadcast message.status_changed for %s failed: %s", id, err)
	}
}
