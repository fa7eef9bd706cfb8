package routes

import (
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/handlers"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/middleware"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/access"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/pkg/security/auth"
	"github.com/gin-gonic/gin"
)

// ProjectRoutes handles the setup of project-related routes
type ProjectRoutes struct {
	handler *handlers.ProjectHandler
	jwt     *auth.JWTService
}

// NewProjectRoutes creates a new ProjectRoutes instance
func NewProjectRoutes(handler *handlers.ProjectHandler, jwt *auth.JWTService) *ProjectRoutes {
	return &ProjectRoutes{handler: handler, jwt: jwt}
}

// RegisterRoutes registers all project-related routes
func (r *ProjectRoutes) RegisterRoutes(router *gin.Engine, metrics *middleware.MetricsMiddleware) {
	projects := router.Group("/api/projects")
	projects.Use(middleware.NewAuthMiddleware(r.jwt))
	projects.Use(metrics.CollectMetrics())

	projects.GET("", r.handler.ListProjects)
	projects.GET("/:id", r.handler.GetProject)

	manage := middleware.RequireCapability(access.ActionManageTasks)
	projects.POST("", manage, r.handler.CreateProject)
	projects.PUT("/:id", manage, r.handler.UpdateProject)
	projects.POST("/:id/members", manage, r.handler.AddMember)
	projects.DELETE("/:id/members/:user_id", manage, r.handler.RemoveMember)

	projects.DELETE("/:id", middleware.RequireCapability(access.ActionDeleteTasks), r.handler.DeleteProject)
}
