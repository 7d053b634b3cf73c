package smoothies

import (
	"net/http"
	"strconv"
	"strings"

	"smoothie-catalog/internal/core/dataset"
	"smoothie-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Handler serves catalog list, detail and meta requests.
type Handler struct {
	catalog *dataset.Catalog
}

// NewHandler creates a catalog handler.
func NewHandler(catalog *dataset.Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// splitListParam turns a comma-separated query parameter into its non-empty
// parts.
func splitListParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intParam(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// List handles GET /smoothies.
func (h *Handler) List(c *gin.Context) {
	seed := c.Query("seed")
	if seed == "" {
		// an explicit seed keeps pagination stable; without one each
		// request gets a fresh shuffle
		seed = common.GenerateUUID()
	}

	query := dataset.Query{
		Text:               c.Query("q"),
		ExcludeIngredients: splitListParam(c.Query("exclude")),
		ExcludePresets:     splitListParam(c.Query("presets")),
		IDs:                splitListParam(c.Query("ids")),
		Sort:               c.Query("sort"),
		Seed:               seed,
		Offset:             intParam(c, "offset", 0),
		Limit:              intParam(c, "limit", 0),
	}

	result := h.catalog.Run(query)
	c.JSON(http.StatusOK, gin.H{
		"items":      result.Items,
		"total":      result.Total,
		"offset":     result.Offset,
		"nextOffset": result.NextOffset,
		"limit":      result.Limit,
		"seed":       seed,
	})
}

// Detail handles GET /smoothies/:slug.
func (h *Handler) Detail(c *gin.Context) {
	slug := c.Param("slug")
	s, ok := h.catalog.BySlug(slug)
	if !ok {
		c.JSON(http.StatusNotFound, common.ErrorResponse{
			Code:    common.ErrCodeNotFound,
			Message: "smoothie not found",
		})
		return
	}
	c.JSON(http.StatusOK, s)
}

// Meta handles GET /meta.
func (h *Handler) Meta(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Meta)
}
