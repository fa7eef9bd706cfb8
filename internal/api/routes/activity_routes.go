package routes

import (
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/handlers"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/middleware"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/access"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/pkg/security/auth"
	"github.com/gin-gonic/gin"
)

// ActivityRoutes handles the setup of audit trail routes
type ActivityRoutes struct {
	handler *handlers.ActivityHandler
	jwt     *auth.JWTService
}

// NewActivityRoutes creates a new ActivityRoutes instance
func NewActivityRoutes(handler *handlers.ActivityHandler, jwt *auth.JWTService) *ActivityRoutes {
	return &ActivityRoutes{handler: handler, jwt: jwt}
}

// RegisterRoutes registers all audit trail routes
func (r *ActivityRoutes) RegisterRoutes(router *gin.Engine, metrics *middleware.MetricsMiddleware) {
	activity := router.Group("/api/activity")
	activity.Use(middleware.NewAuthMiddleware(r.jwt))
	activity.Use(metrics.CollectMetrics())
	activity.Use(middleware.RequireCapability(access.ActionViewAllTasks))

	activity.GET("/entity/:type/:id", r.handler.EntityHistory)
	activity.GET("/user/:id", r.handler.UserHistory)
}
