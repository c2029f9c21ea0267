package httpdto

import (
	"github.com/badalku27/WhatsApp-Web-Clone/pkg/database"
)

// HealthResponse mirrors the datastore connection snapshot.
type HealthResponse struct {
	OK    bool              `json:"ok"`
	Mongo database.Snapshot `json:"mongo"`
}

// ClusterResponse is returned by GET /api/admin/cluster.
type ClusterResponse struct {
	OK           bool             `json:"ok"`
	ReadyState   string           `json:"readyState"`
	DBName       string           `json:"dbName"`
	Collections  []string         `json:"collections"`
	SampleCounts map[string]int64 `json:"sampleCounts"`
}
