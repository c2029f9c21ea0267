package httpdto

import (
	"github.com/badalku27/WhatsApp-Web-Clone/internal/ingest"
)

// IngestResponse is returned by POST /api/payloads/ingest.
type IngestResponse struct {
	OK     bool           `json:"ok"`
	Result ingest.Summary `json:"result"`
}
