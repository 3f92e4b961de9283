package handler

import (
	"net/http"

	"profile/internal/service"

	"github.com/gin-gonic/gin"
)

// health 路徑不經過 response 包裝，直接回傳給 k8s 健康檢查
type HealthHandler struct {
	healthService *service.HealthService
}

func NewHealthHandler(healthService *service.HealthService) *HealthHandler {
	return &HealthHandler{healthService: healthService}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	if h.healthService.IsLive() {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
		return
	}
	c.Status(http.StatusServiceUnavailable)
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	ready, reason := h.healthService.Readiness(c.Request.Context())
	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not-ready", "reason": reason})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
