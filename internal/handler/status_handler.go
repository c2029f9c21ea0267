package handler

import (
	"net/http"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/status"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/services"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	service  *services.StatusService
	contacts *services.ContactService
}

func NewStatusHandler(service *services.StatusService, contacts *services.ContactService) *StatusHandler {
	return &StatusHandler{service: service, contacts: contacts}
}

// List handles GET /api/status. Expired items are filtered out and
// contacts whose every item expired are omitted.
func (h *StatusHandler) List(c *gin.Context) {
	collections, err := h.service.ListVisible(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if collections == nil {
		collections = []status.Collection{}
	}
	c.JSON(http.StatusOK, httpdto.StatusListResponse{Statuses: collections})
}

// Post handles POST /api/status.
func (h *StatusHandler) Post(c *gin.Context) {
	var req httpdto.PostStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	if req.WaID == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("wa_id required", "INVALID_REQUEST"))
		return
	}

	collection, err := h.service.Post(c.Request.Context(), req.WaID, req.Name, status.Kind(req.Type), req.Text, req.MediaURL)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.ProfilePic != "" {
		_ = h.contacts.MergeUpsert(c.Request.Context(), req.WaID, req.Name, req.ProfilePic)
	}

	c.JSON(http.StatusOK, httpdto.StatusResponse{OK: true, Status: collection})
}

// PostUpload handles POST /api/status/upload (multipart form-data).
func (h *StatusHandler) PostUpload(c *gin.Context) {
	waID := c.PostForm("wa_id")
	if waID == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("wa_id required", "INVALID_REQUEST"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("file required", "INVALID_REQUEST"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("file required", "INVALID_REQUEST"))
		return
	}
	defer file.Close()

	name := c.PostForm("name")
	kind := status.Kind(c.PostForm("type"))

	collection, err := h.service.PostUpload(c.Request.Context(), waID, name, kind, fileHeader.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}

	if pic := c.PostForm("profilePic"); pic != "" {
		_ = h.contacts.MergeUpsert(c.Request.Context(), waID, name, pic)
	}

	c.JSON(http.StatusOK, httpdto.StatusResponse{OK: true, Status: collection})
}

// DeleteCollection handles DELETE /api/status/:wa_id.
func (h *StatusHandler) DeleteCollection(c *gin.Context) {
	waID := c.Param("wa_id")
	if waID == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("wa_id required", "INVALID_REQUEST"))
		return
	}

	deleted, err := h.service.DeleteCollection(c.Request.Context(), waID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.DeleteStatusResponse{OK: true, DeletedCount: deleted})
}

// DeleteItem handles DELETE /api/status/:wa_id/items/:id.
func (h *StatusHandler) DeleteItem(c *gin.Context) {
	waID := c.Param("wa_id")
	itemID := c.Param("id")
	if waID == "" || itemID == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("wa_id and id required", "INVALID_REQUEST"))
		return
	}

	collection, err := h.service.DeleteItem(c.Request.Context(), waID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.StatusResponse{OK: true, Status: collection})
}
