package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/gem-thermo/internal/domain/cache"
)

// HealthHandler handles health check HTTP requests.
type HealthHandler struct {
	holder  *cache.Holder
	version string
	startAt time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(version string, holder *cache.Holder) *HealthHandler {
	return &HealthHandler{holder: holder, version: version, startAt: time.Now()}
}

// LivenessResponse is the response for the liveness probe.
type LivenessResponse struct {
	Status  string      `json:"status"`
	Version string      `json:"version"`
	Uptime  string      `json:"uptime"`
	Cache   cache.Stats `json:"cache"`
}

// ReadinessResponse is the response for the readiness probe.
type ReadinessResponse struct {
	Status string `json:"status"`
}

// Liveness handles GET /healthz.  It answers 200 while the process runs,
// whatever the cache state.
func (h *HealthHandler) Liveness(c *gin.Context) {
	writeJSON(c, http.StatusOK, LivenessResponse{
		Status:  "alive",
		Version: h.version,
		Uptime:  time.Since(h.startAt).Truncate(time.Second).String(),
		Cache:   h.holder.Current().Stats(),
	})
}

// Readiness handles GET /readyz.  It answers 503 until a reaction cache with
// entries is loaded.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if !h.holder.Current().Stats().Available {
		writeJSON(c, http.StatusServiceUnavailable, ReadinessResponse{Status: "not_ready"})
		return
	}
	writeJSON(c, http.StatusOK, ReadinessResponse{Status: "ready"})
}

//Personal.AI order the ending
