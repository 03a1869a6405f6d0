package handlers

import (
	"net/http"

	"marketplace/internal/middleware"
	"marketplace/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	service  *service.MarketplaceService
	decimals int32
}

// NewHandlers builds the HTTP handlers. decimals controls how amounts are rendered for display.
func NewHandlers(svc *service.MarketplaceService, decimals int32) *Handlers {
	return &Handlers{
		service:  svc,
		decimals: decimals,
	}
}

// account returns the authenticated caller, or answers 401 and returns false.
func account(c *gin.Context) (string, bool) {
	if acc, ok := middleware.AccountFromContext(c.Request.Context()); ok {
		return acc, true
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	return "", false
}
