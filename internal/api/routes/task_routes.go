package routes

import (
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/handlers"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/middleware"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/access"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/pkg/security/auth"
	"github.com/gin-gonic/gin"
)

// TaskRoutes handles the setup of task-related routes
type TaskRoutes struct {
	handler *handlers.TaskHandler
	jwt     *auth.JWTService
}

// NewTaskRoutes creates a new TaskRoutes instance
func NewTaskRoutes(handler *handlers.TaskHandler, jwt *auth.JWTService) *TaskRoutes {
	return &TaskRoutes{handler: handler, jwt: jwt}
}

// RegisterRoutes registers all task-related routes
func (r *TaskRoutes) RegisterRoutes(router *gin.Engine, metrics *middleware.MetricsMiddleware) {
	tasks := router.Group("/api/tasks")
	tasks.Use(middleware.NewAuthMiddleware(r.jwt))
	tasks.Use(metrics.CollectMetrics())

	tasks.GET("", r.handler.ListTasks)
	tasks.GET("/at-risk", r.handler.AtRiskTasks)
	tasks.GET("/:id", r.handler.GetTask)
	tasks.GET("/project/:project_id", r.handler.GetProjectTasks)

	tasks.POST("", r.handler.CreateTask)
	tasks.PUT("/:id", r.handler.UpdateTask)
	tasks.PATCH("/:id/status", r.handler.UpdateTaskStatus)
	tasks.PATCH("/:id/assign", r.handler.AssignTask)

	tasks.POST("/:id/comments", r.handler.AddComment)
	tasks.POST("/:id/subtasks", r.handler.AddSubtask)
	tasks.PATCH("/:id/subtasks/:subtask_id/toggle", r.handler.ToggleSubtask)

	tasks.DELETE("/:id", middleware.RequireCapability(access.ActionDeleteTasks), r.handler.DeleteTask)
}
