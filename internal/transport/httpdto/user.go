package httpdto

import (
	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/contact"
)

// SetProfilePicURLRequest is used for POST /api/users/profilePic/url
type SetProfilePicURLRequest struct {
	WaID       string `json:"wa_id"`
	Name       string `json:"name"`
	ProfilePic string `json:"profilePic"`
}

type UserResponse struct {
	OK   bool            `json:"ok"`
	User contact.Contact `json:"user"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
