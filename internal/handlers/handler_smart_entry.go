package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mdnahid/baki_khata_app/internal/apperrors"
	"github.com/mdnahid/baki_khata_app/internal/dto"
)

// smartEntryRequest carries the free text to parse.
type smartEntryRequest struct {
	Text string `json:"text" binding:"required"`
}

// registerSmartEntryRoutes exposes the natural-language entry assist.
// Rate-limited because each call fans out to a paid extraction API.
func registerSmartEntryRoutes(rg *gin.RouterGroup, svcs *Services) {
	rg.POST("/smart-entry", newIPRateLimiter("20-M"), func(c *gin.Context) {
		if !svcs.Smart.Enabled() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Smart entry is not configured"})
			return
		}

		var req smartEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}

		entry, err := svcs.Smart.Parse(c.Request.Context(), req.Text)
		if err != nil {
			if errors.Is(err, apperrors.ErrUnparseable) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse text"})
			return
		}

		c.JSON(http.StatusOK, dto.ParsedEntryResponse{
			Name:   entry.CustomerName,
			Amount: entry.Amount,
			Kind:   string(entry.Kind),
			Note:   entry.Note,
		})
	})
}
