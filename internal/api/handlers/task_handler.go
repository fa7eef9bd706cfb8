package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/dto"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/middleware"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/access"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/task"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/user"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskHandler handles HTTP requests for task operations
type TaskHandler struct {
	service task.Service
	users   user.Service
}

// NewTaskHandler creates a new TaskHandler instance
func NewTaskHandler(service task.Service, users user.Service) *TaskHandler {
	return &TaskHandler{service: service, users: users}
}

// actor resolves the full authenticated user making the request
func (h *TaskHandler) actor(c *gin.Context) (*user.User, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}
	u, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}
	return u, true
}

// loadForMutation fetches a task and verifies the actor may act on it
func (h *TaskHandler) loadForMutation(c *gin.Context, actor *user.User) (*task.Task, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return nil, false
	}

	t, err := h.service.GetTask(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load task"})
		return nil, false
	}

	if !access.CanActOnTask(actor, t.AssigneeID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return nil, false
	}
	return t, true
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := task.TaskStatus(req.Status)
	if req.Status != "" && !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status value"})
		return
	}
	priority := task.TaskPriority(req.Priority)
	if req.Priority != "" && !priority.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority value"})
		return
	}

	created, err := h.service.CreateTask(c.Request.Context(), task.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		ProjectID:      req.ProjectID,
		AssigneeID:     req.AssigneeID,
		CreatedBy:      actor.ID,
		Status:         status,
		Priority:       priority,
		DueDate:        req.DueDate,
		StartDate:      req.StartDate,
		Tags:           req.Tags,
		EstimatedHours: req.EstimatedHours,
		Dependencies:   req.Dependencies,
	})
	if err != nil {
		if errors.Is(err, task.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task data"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListTasks returns tasks matching the query filters. Employees see only
// their own tasks.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var filter task.TaskFilter
	if !access.Can(actor.Role, access.ActionViewAllTasks) {
		filter.AssigneeID = &actor.ID
	} else if assignee := c.Query("assignee_id"); assignee != "" {
		id, err := uuid.Parse(assignee)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignee ID"})
			return
		}
		filter.AssigneeID = &id
	}
	if status := c.Query("status"); status != "" {
		s := task.TaskStatus(status)
		if !s.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status value"})
			return
		}
		filter.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := task.TaskPriority(priority)
		if !p.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority value"})
			return
		}
		filter.Priority = &p
	}

	tasks, total, err := h.service.ListTasks(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "total": total})
}

// GetTask returns one task with its subtasks and comments
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	t, err := h.service.GetTask(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load task"})
		return
	}

	c.JSON(http.StatusOK, t)
}

// GetProjectTasks returns the tasks of one project
func (h *TaskHandler) GetProjectTasks(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
		return
	}

	tasks, total, err := h.service.GetProjectTasks(c.Request.Context(), projectID, task.TaskFilter{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "total": total})
}

// UpdateTask applies a partial update to a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	t, ok := h.loadForMutation(c, actor)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := task.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        req.DueDate,
		StartDate:      req.StartDate,
		Tags:           req.Tags,
		EstimatedHours: req.EstimatedHours,
		Dependencies:   req.Dependencies,
	}
	if req.Priority != nil {
		p := task.TaskPriority(*req.Priority)
		input.Priority = &p
	}

	updated, err := h.service.UpdateTask(c.Request.Context(), t.ID, input, actor)
	if err != nil {
		if errors.Is(err, task.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task data"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// UpdateTaskStatus moves a task to a new status
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	t, ok := h.loadForMutation(c, actor)
	if !ok {
		return
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateTaskStatus(c.Request.Context(), t.ID, task.TaskStatus(req.Status), actor)
	if err != nil {
		if errors.Is(err, task.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status value"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task status"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// AssignTask reassigns a task to another user
func (h *TaskHandler) AssignTask(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	t, ok := h.loadForMutation(c, actor)
	if !ok {
		return
	}

	var req dto.AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.AssignTask(c.Request.Context(), t.ID, req.AssigneeID, actor)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "assignee not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assign task"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// AddComment appends a comment to a task
func (h *TaskHandler) AddComment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), id, actor.ID, req.Content)
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add comment"})
		return
	}
	if comment == nil {
		c.JSON(http.StatusNoContent, nil)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// AddSubtask appends a subtask to a task
func (h *TaskHandler) AddSubtask(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	t, ok := h.loadForMutation(c, actor)
	if !ok {
		return
	}

	var req dto.CreateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subtask, err := h.service.AddSubtask(c.Request.Context(), t.ID, task.CreateSubtaskInput{
		Title:      req.Title,
		AssigneeID: req.AssigneeID,
		DueDate:    req.DueDate,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add subtask"})
		return
	}
	if subtask == nil {
		c.JSON(http.StatusNoContent, nil)
		return
	}

	c.JSON(http.StatusCreated, subtask)
}

// ToggleSubtask flips a subtask's completed flag
func (h *TaskHandler) ToggleSubtask(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	t, ok := h.loadForMutation(c, actor)
	if !ok {
		return
	}

	subtaskID, err := uuid.Parse(c.Param("subtask_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subtask ID"})
		return
	}

	subtask, err := h.service.ToggleSubtask(c.Request.Context(), t.ID, subtaskID)
	if err != nil {
		if errors.Is(err, task.ErrSubtaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subtask not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle subtask"})
		return
	}

	c.JSON(http.StatusOK, subtask)
}

// DeleteTask removes a task and its children
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), id, actor); err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

// AtRiskTasks returns the tasks at or above the risk threshold
func (h *TaskHandler) AtRiskTasks(c *gin.Context) {
	tasks, err := h.service.AtRiskTasks(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute at-risk tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "total": len(tasks)})
}
