package httpdto

import (
	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/status"
)

// PostStatusRequest is used for POST /api/status
type PostStatusRequest struct {
	WaID       string `json:"wa_id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Text       string `json:"text"`
	MediaURL   string `json:"mediaUrl"`
	ProfilePic string `json:"profilePic"`
}

type StatusResponse struct {
	OK     bool              `json:"ok"`
	Status status.Collection `json:"status"`
}

type StatusListResponse struct {
	Statuses []status.Collection `json:"statuses"`
}

type DeleteStatusResponse struct {
	OK           bool  `json:"ok"`
	DeletedCount int64 `json:"deletedCount"`
}
