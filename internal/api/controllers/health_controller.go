package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	service string
	now     func() time.Time
}

func NewHealthController() *HealthController {
	return &HealthController{service: "healwise-api", now: time.Now}
}

// Health godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"service": h.service,
		"ts":      h.now().UTC().Format(time.RFC3339),
	})
}
