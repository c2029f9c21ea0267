package httpdto

import (
	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/message"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/repository"
)

// SendMessageRequest is used for POST /api/messages/send
type SendMessageRequest struct {
	WaID       string `json:"wa_id"`
	Name       string `json:"name"`
	Text       string `json:"text"`
	ProfilePic string `json:"profilePic"`
}

// InsertMessageRequest is used for the compatibility POST /api/messages.
// Status defaults to "sent" when absent and no delivery simulation runs.
type InsertMessageRequest struct {
	WaID       string `json:"wa_id"`
	Name       string `json:"name"`
	Text       string `json:"text"`
	Status     string `json:"status"`
	ProfilePic string `json:"profilePic"`
}

type SendMessageResponse struct {
	OK      bool            `json:"ok"`
	Message message.Message `json:"message"`
}

type ChatListResponse struct {
	Chats []repository.ChatRow `json:"chats"`
}

type MessageListResponse struct {
	Messages []message.Message `json:"messages"`
}

type DeleteChatResponse struct {
	OK           bool  `json:"ok"`
	DeletedCount int64 `json:"deletedCount"`
}
