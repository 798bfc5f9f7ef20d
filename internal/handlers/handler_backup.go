package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mdnahid/baki_khata_app/internal/apperrors"
	"github.com/mdnahid/baki_khata_app/internal/core/services"
	"github.com/mdnahid/baki_khata_app/internal/middleware"
)

// backupHandler serves export and import of the full ledger state.
type backupHandler struct {
	sessions *services.SessionManager
}

func registerBackupRoutes(rg *gin.RouterGroup, sessions *services.SessionManager) {
	h := &backupHandler{sessions: sessions}

	backup := rg.Group("/backup")
	{
		backup.GET("/export", h.export)
		backup.POST("/import", h.importBackup)
	}
}

// export returns the backup payload, as raw JSON by default or as a
// base64 text code with ?format=code for manual copy/paste transfer.
func (h *backupHandler) export(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	svc, ok := session(c, h.sessions)
	if !ok {
		return
	}

	if c.Query("format") == "code" {
		code, err := svc.ExportCode()
		if err != nil {
			logger.Error("Failed to export backup code", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": code})
		return
	}

	data, err := svc.ExportJSON()
	if err != nil {
		logger.Error("Failed to export backup", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="baki_khata_backup.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

// importBackup accepts the backup envelope or a legacy bare entry
// array, as raw JSON or a base64 code, and replaces the session state
// wholesale. The import is all-or-nothing.
func (h *backupHandler) importBackup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	svc, ok := session(c, h.sessions)
	if !ok {
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil || len(payload) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty import payload"})
		return
	}

	imported, err := svc.Import(c.Request.Context(), payload)
	if err != nil {
		if errors.Is(err, apperrors.ErrImportFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to import backup", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import"})
		return
	}

	logger.Info("Backup imported", slog.Int("entries", imported))
	c.JSON(http.StatusOK, gin.H{"imported": imported})
}
