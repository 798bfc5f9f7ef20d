package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mdnahid/baki_khata_app/internal/core/services"
)

// registerSyncRoutes exposes the transient sync indicator and a
// manual remote refresh.
func registerSyncRoutes(rg *gin.RouterGroup, sessions *services.SessionManager) {
	sync := rg.Group("/sync")

	sync.GET("/status", func(c *gin.Context) {
		svc, ok := session(c, sessions)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, svc.Status())
	})

	// Refresh is synchronous so the caller sees the resulting status,
	// but a failure is still just a degraded status, never an error.
	sync.POST("/refresh", func(c *gin.Context) {
		svc, ok := session(c, sessions)
		if !ok {
			return
		}
		svc.Refresh(c.Request.Context())
		c.JSON(http.StatusOK, svc.Status())
	})
}
