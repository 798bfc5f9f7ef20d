package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mdnahid/baki_khata_app/internal/apperrors"
	"github.com/mdnahid/baki_khata_app/internal/core/services"
	"github.com/mdnahid/baki_khata_app/internal/dto"
	"github.com/mdnahid/baki_khata_app/internal/middleware"
	"github.com/mdnahid/baki_khata_app/internal/models"
)

// entryHandler handles ledger entry reads and mutations.
type entryHandler struct {
	sessions *services.SessionManager
}

func registerEntryRoutes(rg *gin.RouterGroup, sessions *services.SessionManager) {
	h := &entryHandler{sessions: sessions}

	entries := rg.Group("/entries")
	{
		entries.GET("", h.listEntries)
		entries.POST("", h.createEntry)
		entries.DELETE("/:id", h.deleteEntry)
	}
}

func (h *entryHandler) listEntries(c *gin.Context) {
	svc, ok := session(c, h.sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponses(svc.Entries()))
}

func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	svc, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := svc.AddEntry(c.Request.Context(), req.Name, req.Amount, models.EntryKind(req.Kind), req.Note)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to add entry", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add entry"})
		}
		return
	}

	logger.Info("Entry added", slog.String("entry_id", entry.ID.Value), slog.String("kind", string(entry.Kind)))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

func (h *entryHandler) deleteEntry(c *gin.Context) {
	svc, ok := session(c, h.sessions)
	if !ok {
		return
	}

	if !svc.DeleteEntry(c.Request.Context(), c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
