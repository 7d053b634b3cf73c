package health

import (
	"net/http"
	"runtime"
	"time"

	"smoothie-catalog/internal/core/dataset"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Runtime   map[string]any `json:"runtime"`
	Catalog   *CatalogStatus `json:"catalog,omitempty"`
}

// CatalogStatus summarizes the loaded dataset.
type CatalogStatus struct {
	Records    int `json:"records"`
	WithImages int `json:"with_images"`
}

// Handler serves health, liveness and readiness probes.
type Handler struct {
	version string
	catalog *dataset.Catalog
}

// NewHandler creates a health handler.
func NewHandler(version string, catalog *dataset.Catalog) *Handler {
	return &Handler{version: version, catalog: catalog}
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Runtime: map[string]any{
			"goroutines":    runtime.NumGoroutine(),
			"heap_alloc_mb": m.HeapAlloc / 1024 / 1024,
			"num_gc":        m.NumGC,
			"go_version":    runtime.Version(),
		},
	}
	if h.catalog != nil {
		resp.Catalog = &CatalogStatus{
			Records:    h.catalog.Meta.Total,
			WithImages: h.catalog.Meta.WithImages,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// LivenessCheck handles GET /live.
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// ReadinessCheck handles GET /ready. The service is ready once the catalog
// is loaded.
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
