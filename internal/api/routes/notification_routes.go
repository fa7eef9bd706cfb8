package routes

import (
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/handlers"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/middleware"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/pkg/security/auth"
	"github.com/gin-gonic/gin"
)

// NotificationRoutes handles the setup of notification routes
type NotificationRoutes struct {
	handler *handlers.NotificationHandler
	jwt     *auth.JWTService
}

// NewNotificationRoutes creates a new NotificationRoutes instance
func NewNotificationRoutes(handler *handlers.NotificationHandler, jwt *auth.JWTService) *NotificationRoutes {
	return &NotificationRoutes{handler: handler, jwt: jwt}
}

// RegisterRoutes registers all notification routes
func (r *NotificationRoutes) RegisterRoutes(router *gin.Engine, metrics *middleware.MetricsMiddleware) {
	notifications := router.Group("/api/notifications")
	notifications.Use(middleware.NewAuthMiddleware(r.jwt))
	notifications.Use(metrics.CollectMetrics())

	notifications.GET("", r.handler.List)
	notifications.GET("/unread/count", r.handler.UnreadCount)
	notifications.PATCH("/:id/read", r.handler.MarkAsRead)
	notifications.PATCH("/read-all", r.handler.MarkAllAsRead)
	notifications.DELETE("/:id", r.handler.Delete)
}
