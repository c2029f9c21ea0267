package services

import (
	"context"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/repository"
)

// ChatService derives the chat-list view: one row per contact carrying
// its latest message. The projection is recomputed from the message
// store on every call; nothing is materialized.
type ChatService struct {
	messages repository.MessageRepository
	contacts repository.ContactRepository
}

func NewChatService(messages repository.MessageRepository, contacts repository.ContactRepository) *ChatService {
	return &ChatService{messages: messages, contacts: contacts}
}

// ListChats returns the projection ordered by last-message timestamp
// descending. Rows with equal timestamps are ordered by wa_id
// ascending. Directory values win over the name snapshot carried on
// the message.
func (s *ChatService) ListChats(ctx context.Context) ([]repository.ChatRow, error) {
	rows, err := s.messages.ListChats(ctx)
	if err != nil {
		return nil, err
	}

	waIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		waIDs = append(waIDs, row.WaID)
	}
	directory, err := s.contacts.GetMany(ctx, waIDs)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		if c, ok := directory[rows[i].WaID]; ok {
			rows[i].ProfilePic = c.ProfilePic
			if c.Name != "" {
				rows[i].Name = c.Name
			}
		}
	}
	return rows, nil
}
