package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mdnahid/baki_khata_app/internal/apperrors"
	"github.com/mdnahid/baki_khata_app/internal/core/services"
	"github.com/mdnahid/baki_khata_app/internal/dto"
	"github.com/mdnahid/baki_khata_app/internal/middleware"
	"github.com/mdnahid/baki_khata_app/internal/utils"
	"github.com/mdnahid/baki_khata_app/pkg/config"
)

// authHandler handles shop registration and login.
type authHandler struct {
	shops       *services.ShopService
	jwtSecret   string
	jwtDuration time.Duration
	jwtIssuer   string
}

// registerAuthRoutes sets up the public authentication routes. Login
// is rate-limited since every attempt costs a bcrypt comparison.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, svcs *Services) {
	h := &authHandler{
		shops:       svcs.Shops,
		jwtSecret:   cfg.JWTSecret,
		jwtDuration: cfg.JWTExpiryDuration,
		jwtIssuer:   cfg.JWTIssuer,
	}

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", newIPRateLimiter("10-M"), h.login)
	}
}

func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	shop, err := h.shops.Register(c.Request.Context(), req.ShopName, req.Pin)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "A shop with this name already exists"})
		} else {
			logger.Error("Failed to register shop", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register shop"})
		}
		return
	}

	token, err := utils.GenerateJWT(shop.ShopID, h.jwtSecret, h.jwtDuration, h.jwtIssuer)
	if err != nil {
		logger.Error("Failed to generate token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info("Shop registered", slog.String("shop_id", shop.ShopID))
	c.JSON(http.StatusCreated, dto.AuthResponse{Token: token, ShopID: shop.ShopID, ShopName: shop.ShopName})
}

func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	shop, err := h.shops.Login(c.Request.Context(), req.ShopName, req.Pin)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid shop name or pin"})
		} else {
			logger.Error("Failed to log in shop", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		}
		return
	}

	token, err := utils.GenerateJWT(shop.ShopID, h.jwtSecret, h.jwtDuration, h.jwtIssuer)
	if err != nil {
		logger.Error("Failed to generate token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{Token: token, ShopID: shop.ShopID, ShopName: shop.ShopName})
}

// registerLogoutRoute clears the caller's in-memory session. The
// persisted local cache stays; logout is not a data-deletion
// operation.
func registerLogoutRoute(rg *gin.RouterGroup, sessions *services.SessionManager) {
	rg.POST("/auth/logout", func(c *gin.Context) {
		shopID, ok := middleware.GetShopIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		sessions.Clear(shopID)
		c.Status(http.StatusNoContent)
	})
}
