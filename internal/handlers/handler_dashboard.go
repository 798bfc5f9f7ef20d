package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mdnahid/baki_khata_app/internal/core/services"
)

// registerDashboardRoutes exposes the derived global totals.
func registerDashboardRoutes(rg *gin.RouterGroup, sessions *services.SessionManager) {
	rg.GET("/dashboard", func(c *gin.Context) {
		svc, ok := session(c, sessions)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, svc.Totals())
	})
}
