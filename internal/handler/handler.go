package handler

import (
	"errors"
	"net/http"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/transport/httpdto"
	whatsapp_errors "github.com/badalku27/WhatsApp-Web-Clone/pkg/errors"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP status codes and the
// shared error envelope.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, whatsapp_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_REQUEST"))
	case errors.Is(err, whatsapp_errors.ErrUnknownPayload):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "UNKNOWN_PAYLOAD"))
	case errors.Is(err, whatsapp_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(err.Error(), "NOT_FOUND"))
	case errors.Is(err, whatsapp_errors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse(err.Error(), "INVALID_TRANSITION"))
	case errors.Is(err, whatsapp_errors.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, httpdto.NewErrorResponse(err.Error(), "PAYLOAD_TOO_LARGE"))
	case errors.Is(err, whatsapp_errors.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "STORE_UNAVAILABLE"))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "INTERNAL_ERROR"))
	}
}
