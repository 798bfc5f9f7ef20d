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
)

// customerHandler serves the derived per-customer folder views and
// the customer-level mutations (rename, delete, payment, contact).
type customerHandler struct {
	sessions *services.SessionManager
}

func registerCustomerRoutes(rg *gin.RouterGroup, sessions *services.SessionManager) {
	h := &customerHandler{sessions: sessions}

	customers := rg.Group("/customers")
	{
		customers.GET("", h.listCustomers)
		customers.GET("/:name", h.getCustomer)
		customers.PUT("/:name", h.renameCustomer)
		customers.DELETE("/:name", h.deleteCustomer)
		customers.PUT("/:name/phone", h.setPhone)
		customers.POST("/:name/payments", h.recordPayment)
	}
}

func (h *customerHandler) listCustomers(c *gin.Context) {
	svc, ok := session(c, h.sessions)
	if !ok {
		return
	}

	order := services.SortByName
	if c.Query("sort") == string(services.SortByBalance) {
		order = services.SortByBalance
	}

	folders := services.FilterAndSort(svc.Folders(), c.Query("q"), order)
	out := make([]dto.FolderResponse, 0, len(folders))
	for _, f := range folders {
		out = append(out, dto.ToFolderResponse(f))
	}
	c.JSON(http.StatusOK, out)
}

func (h *customerHandler) getCustomer(c *gin.Context) {
	svc, ok := session(c, h.sessions)
	if !ok {
		return
	}

	folder, entries, found := svc.Folder(c.Param("name"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FolderDetailResponse{
		FolderResponse: dto.ToFolderResponse(folder),
		Entries:        dto.ToEntryResponses(entries),
	})
}

func (h *customerHandler) renameCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	svc, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var req dto.RenameCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	renamed, err := svc.RenameCustomer(c.Request.Context(), c.Param("name"), req.NewName)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to rename customer", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rename customer"})
		return
	}
	if renamed == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"renamed": renamed})
}

func (h *customerHandler) deleteCustomer(c *gin.Context) {
	svc, ok := session(c, h.sessions)
	if !ok {
		return
	}

	removed := svc.DeleteCustomer(c.Request.Context(), c.Param("name"))
	if removed == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (h *customerHandler) setPhone(c *gin.Context) {
	svc, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var req dto.SetPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := svc.SetPhone(c.Request.Context(), c.Param("name"), req.Phone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *customerHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	svc, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := svc.RecordPayment(c.Request.Context(), c.Param("name"), req.Amount, req.Note)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to record payment", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}
