package routes

import (
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/handlers"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/middleware"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/access"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/pkg/security/auth"
	"github.com/gin-gonic/gin"
)

// UserRoutes handles the setup of user administration routes
type UserRoutes struct {
	handler     *handlers.UserHandler
	authHandler *handlers.AuthHandler
	jwt         *auth.JWTService
}

// NewUserRoutes creates a new UserRoutes instance
func NewUserRoutes(handler *handlers.UserHandler, authHandler *handlers.AuthHandler, jwt *auth.JWTService) *UserRoutes {
	return &UserRoutes{handler: handler, authHandler: authHandler, jwt: jwt}
}

// RegisterRoutes registers all user administration routes
func (r *UserRoutes) RegisterRoutes(router *gin.Engine, metrics *middleware.MetricsMiddleware) {
	users := router.Group("/api/users")
	users.Use(middleware.NewAuthMiddleware(r.jwt))
	users.Use(metrics.CollectMetrics())

	users.GET("", r.handler.ListUsers)
	users.GET("/:id", r.handler.GetUser)

	// Creating accounts needs the invite capability, the rest of user
	// administration is admin-only
	users.POST("", middleware.RequireCapability(access.ActionInviteUsers), r.authHandler.Register)
	users.PUT("/:id", middleware.RequireCapability(access.ActionManageUsers), r.handler.UpdateUser)
	users.DELETE("/:id", middleware.RequireCapability(access.ActionManageUsers), r.handler.DeleteUser)
}
