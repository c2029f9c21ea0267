package handler

import (
	"io"
	"net/http"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/ingest"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/transport/httpdto"
	whatsapp_errors "github.com/badalku27/WhatsApp-Web-Clone/pkg/errors"

	"github.com/gin-gonic/gin"
)

// maxPayloadBytes caps the accepted ingest body size.
const maxPayloadBytes = 4 << 20

type IngestHandler struct {
	gateway *ingest.Gateway
}

func NewIngestHandler(gateway *ingest.Gateway) *IngestHandler {
	return &IngestHandler{gateway: gateway}
}

// Ingest handles POST /api/payloads/ingest. The body is a raw payload
// carrying either a messages batch or a statuses batch.
func (h *IngestHandler) Ingest(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayloadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("unreadable body", "INVALID_REQUEST"))
		return
	}
	if len(raw) > maxPayloadBytes {
		respondError(c, whatsapp_errors.ErrTooLarge)
		return
	}

	summary, err := h.gateway.ApplyRaw(c.Request.Context(), raw)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.IngestResponse{OK: true, Result: summary})
}
