package routes

import (
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/handlers"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/middleware"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/pkg/security/auth"
	"github.com/gin-gonic/gin"
)

// AuthRoutes handles the setup of authentication routes
type AuthRoutes struct {
	handler *handlers.AuthHandler
	jwt     *auth.JWTService
}

// NewAuthRoutes creates a new AuthRoutes instance
func NewAuthRoutes(handler *handlers.AuthHandler, jwt *auth.JWTService) *AuthRoutes {
	return &AuthRoutes{handler: handler, jwt: jwt}
}

// RegisterRoutes registers all authentication routes
func (r *AuthRoutes) RegisterRoutes(router *gin.Engine) {
	public := router.Group("/api/auth")
	public.POST("/login", r.handler.Login)

	protected := router.Group("/api/auth")
	protected.Use(middleware.NewAuthMiddleware(r.jwt))
	protected.GET("/me", r.handler.Me)
}
