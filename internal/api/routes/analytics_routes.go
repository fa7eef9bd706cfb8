package routes

import (
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/handlers"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/middleware"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/access"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/pkg/security/auth"
	"github.com/gin-gonic/gin"
)

// AnalyticsRoutes handles the setup of metrics rollup routes
type AnalyticsRoutes struct {
	handler *handlers.AnalyticsHandler
	jwt     *auth.JWTService
}

// NewAnalyticsRoutes creates a new AnalyticsRoutes instance
func NewAnalyticsRoutes(handler *handlers.AnalyticsHandler, jwt *auth.JWTService) *AnalyticsRoutes {
	return &AnalyticsRoutes{handler: handler, jwt: jwt}
}

// RegisterRoutes registers all metrics rollup routes
func (r *AnalyticsRoutes) RegisterRoutes(router *gin.Engine, metrics *middleware.MetricsMiddleware) {
	analytics := router.Group("/api/analytics")
	analytics.Use(middleware.NewAuthMiddleware(r.jwt))
	analytics.Use(metrics.CollectMetrics())
	analytics.Use(middleware.RequireCapability(access.ActionViewAnalytics))

	analytics.GET("/overview", r.handler.Overview)
	analytics.GET("/departments", r.handler.Departments)
	analytics.GET("/employees", r.handler.Employees)
	analytics.GET("/departments/export", r.handler.ExportDepartmentsCSV)
}
