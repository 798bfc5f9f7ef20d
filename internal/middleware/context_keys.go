package middleware

import (
	"github.com/gin-gonic/gin"
)

// contextKey is a private type for context keys defined by this
// package. Using a custom type prevents collisions.
type contextKey string

const (
	// loggerCtxKey is the key under which the request-scoped logger is
	// stored in the standard request context.
	loggerCtxKey = contextKey("logger")

	// shopIDKey is the key under which the authenticated shop's ID is
	// stored in the request context.
	shopIDKey = contextKey("shopID")
)

// GetShopIDFromContext retrieves the authenticated shop ID from the
// Gin context. It returns the shop ID and a boolean indicating if it
// was found.
func GetShopIDFromContext(c *gin.Context) (string, bool) {
	if v := c.Request.Context().Value(shopIDKey); v != nil {
		shopID, ok := v.(string)
		return shopID, ok
	}
	return "", false
}
