package whatsapp_errors

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStoreUnavailable  = errors.New("datastore unavailable")
	ErrTooLarge          = errors.New("file too large")
	ErrRateLimited       = errors.New("rate limited")
	ErrNotUploaded       = errors.New("file not uploaded")
	ErrUnknownPayload    = errors.New("unknown payload shape")
)

// NowPtr returns a pointer to current time
func NowPtr() *time.Time {
	now := time.Now()
	return &now
}
