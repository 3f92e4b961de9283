package router

import (
	"profile/internal/handler"

	"github.com/gin-gonic/gin"
)

// HealthRouter 給 k8s 健康檢查用，不經過身分驗證
type HealthRouter struct {
	healthHandler *handler.HealthHandler
}

func NewHealthRouter(healthHandler *handler.HealthHandler) *HealthRouter {
	return &HealthRouter{healthHandler: healthHandler}
}

func (hr *HealthRouter) RegisterRoutes(r *gin.Engine) {
	health := r.Group("/health")
	{
		health.GET("/liveness", hr.healthHandler.Liveness)
		health.GET("/readiness", hr.healthHandler.Readiness)
	}
}
