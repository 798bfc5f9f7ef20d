package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mdnahid/baki_khata_app/internal/core/services"
	"github.com/mdnahid/baki_khata_app/internal/middleware"
	"github.com/mdnahid/baki_khata_app/pkg/config"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"
)

// Services bundles the application services the handlers depend on.
type Services struct {
	Sessions *services.SessionManager
	Shops    *services.ShopService
	Smart    *services.SmartEntryService
}

// RegisterRoutes sets up all application routes.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, svcs *Services) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	registerAuthRoutes(r, cfg, svcs)

	setupAPIV1Routes(r, cfg, svcs)
}

// setupAPIV1Routes configures the authenticated /api/v1 group and
// delegates to the per-area route registrations.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, svcs *Services) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerDashboardRoutes(v1, svcs.Sessions)
	registerEntryRoutes(v1, svcs.Sessions)
	registerCustomerRoutes(v1, svcs.Sessions)
	registerBackupRoutes(v1, svcs.Sessions)
	registerSyncRoutes(v1, svcs.Sessions)
	registerSmartEntryRoutes(v1, svcs)
	registerLogoutRoute(v1, svcs.Sessions)
}

// newIPRateLimiter builds an in-memory per-IP limiter from a rate
// string like "5-M" (five per minute).
func newIPRateLimiter(formatted string) gin.HandlerFunc {
	rate, _ := limiter.NewRateFromFormatted(formatted)
	store := limitermem.NewStore()
	return middleware.RateLimit(limiter.New(store, rate))
}

// session resolves the caller's shop session from the request
// context, establishing it on first use. Returns false after writing
// the error response when no identity is present.
func session(c *gin.Context, sessions *services.SessionManager) (*services.KhataService, bool) {
	shopID, ok := middleware.GetShopIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	return sessions.Establish(c.Request.Context(), shopID), true
}
