package handler

import (
	"net/http"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/services"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *services.ContactService
}

func NewUserHandler(service *services.ContactService) *UserHandler {
	return &UserHandler{service: service}
}

// UploadProfilePic handles POST /api/users/profilePic (multipart).
func (h *UserHandler) UploadProfilePic(c *gin.Context) {
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

	user, err := h.service.SetProfilePicUpload(c.Request.Context(), waID, c.PostForm("name"), fileHeader.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.UserResponse{OK: true, User: user})
}

// SetProfilePicURL handles POST /api/users/profilePic/url.
func (h *UserHandler) SetProfilePicURL(c *gin.Context) {
	var req httpdto.SetProfilePicURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	if req.WaID == "" || req.ProfilePic == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("wa_id and profilePic required", "INVALID_REQUEST"))
		return
	}

	user, err := h.service.SetProfilePicURL(c.Request.Context(), req.WaID, req.Name, req.ProfilePic)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.UserResponse{OK: true, User: user})
}

// ClearProfilePic handles DELETE /api/users/:wa_id/profilePic.
// Clearing an unknown contact succeeds.
func (h *UserHandler) ClearProfilePic(c *gin.Context) {
	waID := c.Param("wa_id")
	if waID == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("wa_id required", "INVALID_REQUEST"))
		return
	}

	if err := h.service.ClearProfilePic(c.Request.Context(), waID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.OKResponse{OK: true})
}
