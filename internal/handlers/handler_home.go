package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// homeHandler serves liveness and root routes.
type homeHandler struct{}

// registerHomeRoutes registers the root and health check routes.
func registerHomeRoutes(r *gin.Engine) {
	h := &homeHandler{}
	r.GET("/", h.home)
	r.GET("/health", h.health)
}

func (h *homeHandler) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "exchange-house", "status": "ok"})
}

func (h *homeHandler) health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
