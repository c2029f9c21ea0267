package handler

import (
	"net/http"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/transport/httpdto"
	"github.com/badalku27/WhatsApp-Web-Clone/pkg/database"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

type AdminHandler struct {
	mongo *database.Mongo
}

func NewAdminHandler(mongo *database.Mongo) *AdminHandler {
	return &AdminHandler{mongo: mongo}
}

// Health handles GET /api/health. It always answers 200 and reports
// the datastore connection snapshot so clients can render state.
func (h *AdminHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, httpdto.HealthResponse{OK: true, Mongo: h.mongo.Status()})
}

// Cluster handles GET /api/admin/cluster with basic datastore
// diagnostics. Answers 503 while the connection is down.
func (h *AdminHandler) Cluster(c *gin.Context) {
	db, err := h.mongo.Database()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse("database not connected", "STORE_UNAVAILABLE"))
		return
	}

	ctx := c.Request.Context()
	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		respondError(c, err)
		return
	}

	// Estimated counts only, full scans are too expensive here.
	top := names
	if len(top) > 5 {
		top = top[:5]
	}
	counts := make(map[string]int64, len(top))
	for _, name := range top {
		n, err := db.Collection(name).EstimatedDocumentCount(ctx)
		if err != nil {
			continue
		}
		counts[name] = n
	}

	c.JSON(http.StatusOK, httpdto.ClusterResponse{
		OK:           true,
		ReadyState:   h.mongo.Status().ReadyState,
		DBName:       db.Name(),
		Collections:  names,
		SampleCounts: counts,
	})
}
