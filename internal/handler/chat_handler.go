package handler

import (
	"net/http"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/repository"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/services"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chats    *services.ChatService
	messages *services.MessageService
}

func NewChatHandler(chats *services.ChatService, messages *services.MessageService) *ChatHandler {
	return &ChatHandler{chats: chats, messages: messages}
}

// List handles GET /api/chats.
func (h *ChatHandler) List(c *gin.Context) {
	rows, err := h.chats.ListChats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if rows == nil {
		rows = []repository.ChatRow{}
	}
	c.JSON(http.StatusOK, httpdto.ChatListResponse{Chats: rows})
}

// Delete handles DELETE /api/chats/:wa_id. Deleting an unknown chat
// reports zero deletions, it is not an error.
func (h *ChatHandler) Delete(c *gin.Context) {
	waID := c.Param("wa_id")
	if waID == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("wa_id required", "INVALID_REQUEST"))
		return
	}

	deleted, err := h.messages.DeleteChat(c.Request.Context(), waID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.DeleteChatResponse{OK: true, DeletedCount: deleted})
}
