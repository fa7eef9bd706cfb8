package routes

import (
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/handlers"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/middleware"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/access"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/pkg/security/auth"
	"github.com/gin-gonic/gin"
)

// TimelogRoutes handles the setup of time tracking routes
type TimelogRoutes struct {
	handler *handlers.TimelogHandler
	jwt     *auth.JWTService
}

// NewTimelogRoutes creates a new TimelogRoutes instance
func NewTimelogRoutes(handler *handlers.TimelogHandler, jwt *auth.JWTService) *TimelogRoutes {
	return &TimelogRoutes{handler: handler, jwt: jwt}
}

// RegisterRoutes registers all time tracking routes
func (r *TimelogRoutes) RegisterRoutes(router *gin.Engine, metrics *middleware.MetricsMiddleware) {
	timelogs := router.Group("/api/time")
	timelogs.Use(middleware.NewAuthMiddleware(r.jwt))
	timelogs.Use(metrics.CollectMetrics())

	timelogs.POST("/timer/start", r.handler.StartTimer)
	timelogs.POST("/timer/stop", r.handler.StopTimer)
	timelogs.GET("/timer", r.handler.ActiveTimer)

	timelogs.POST("/entries", r.handler.LogManual)
	timelogs.GET("/entries/task/:task_id", r.handler.TaskEntries)
	timelogs.GET("/weekly", r.handler.WeeklyTotals)
	timelogs.DELETE("/entries/:id", r.handler.DeleteEntry)

	timelogs.GET("/export", middleware.RequireCapability(access.ActionViewAnalytics), r.handler.ExportCSV)
}
