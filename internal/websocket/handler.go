package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/events"
	"github.com/badalku27/WhatsApp-Web-Clone/pkg/logger"
)

type Handler struct {
	hub         *Hub
	broadcaster events.Broadcaster
	logger      *logger.Logger
}

func NewHandler(hub *Hub, broadcaster events.Broadcaster, l *logger.Logger) *Handler {
	return &Handler{hub: hub, broadcaster: broadcaster, logger: l}
}

// inboundFrame is what clients may send upstream. Only typing
// indicators are accepted; everything else is ignored.
type inboundFrame struct {
	Type string `json:"type"`
	WaID string `json:"wa_id"`
}

func (h *Handler) Connect(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := NewClient(conn)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.hub.Register(client)
	go client.WriteLoop(ctx)

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		h.handleFrame(c.Request.Context(), data)
	}

	h.hub.Unregister(client)
}

// handleFrame relays typing indicators to all clients. No storage, no
// validation beyond the presence of wa_id.
func (h *Handler) handleFrame(ctx context.Context, data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return
	}
	if frame.Type != events.EventTypeTyping || frame.WaID == "" {
		return
	}
	evt := events.New(events.EventTypeTyping, events.TypingPayload{
		WaID: frame.WaID,
		At:   time.Now().UnixMilli(),
	})
	if err := h.broadcaster.Publish(ctx, evt); err != nil && h.logger != nil {
		h.logger.Warnf("typing relay failed: %s", err)
	}
}
