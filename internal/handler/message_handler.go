package handler

import (
	"net/http"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/message"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/services"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	service *services.MessageService
}

func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// Send handles POST /api/messages/send. The stored message starts at
// "sent" and the simulator advances it afterwards.
func (h *MessageHandler) Send(c *gin.Context) {
	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	if req.WaID == "" || req.Text == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("wa_id and text required", "INVALID_REQUEST"))
		return
	}

	msg, err := h.service.Send(c.Request.Context(), req.WaID, req.Text, req.Name, req.ProfilePic)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.SendMessageResponse{OK: true, Message: msg})
}

// Insert handles the compatibility POST /api/messages. It accepts an
// explicit status and performs no delivery simulation.
func (h *MessageHandler) Insert(c *gin.Context) {
	var req httpdto.InsertMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	if req.WaID == "" || req.Text == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("wa_id and text required", "INVALID_REQUEST"))
		return
	}

	st := message.Status(req.Status)
	if req.Status == "" {
		st = message.StatusSent
	}
	if !st.Valid() {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid status", "INVALID_REQUEST"))
		return
	}

	msg, err := h.service.Insert(c.Request.Context(), req.WaID, req.Text, req.Name, req.ProfilePic, st)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.SendMessageResponse{OK: true, Message: msg})
}

// GetConversation handles GET /api/conversations/:wa_id.
func (h *MessageHandler) GetConversation(c *gin.Context) {
	waID := c.Param("wa_id")
	conv, err := h.service.GetConversation(c.Request.Context(), waID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// List handles the compatibility GET /api/messages/:wa_id.
func (h *MessageHandler) List(c *gin.Context) {
	waID := c.Param("wa_id")
	msgs, err := h.service.ListByContact(c.Request.Context(), waID)
	if err != nil {
		respondError(c, err)
		return
	}
	if msgs == nil {
		msgs = []message.Message{}
	}
	c.JSON(http.StatusOK, httpdto.MessageListResponse{Messages: msgs})
}
