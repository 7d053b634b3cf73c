package images

import (
	"net/http"

	"smoothie-catalog/internal/core/suggest"
	"smoothie-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves image suggestion requests.
type Handler struct {
	service *suggest.Service
}

// NewHandler creates an image suggestion handler.
func NewHandler(service *suggest.Service) *Handler {
	return &Handler{service: service}
}

// Suggest handles POST /images/suggest.
func (h *Handler) Suggest(c *gin.Context) {
	var req suggest.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	res, err := h.service.Suggest(c.Request.Context(), req)
	if err != nil {
		if common.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, common.ErrorResponse{
				Code:    common.ErrCodeInvalidRequest,
				Message: err.Error(),
			})
			return
		}
		common.LogError("image suggestion failed",
			zap.Error(err),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
		)
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "image suggestion failed",
		})
		return
	}

	c.JSON(http.StatusOK, res)
}
