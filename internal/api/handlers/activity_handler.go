package handlers

import (
	"net/http"
	"strconv"

	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/activity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActivityHandler handles HTTP requests for the audit trail
type ActivityHandler struct {
	repo activity.Repository
}

// NewActivityHandler creates a new ActivityHandler instance
func NewActivityHandler(repo activity.Repository) *ActivityHandler {
	return &ActivityHandler{repo: repo}
}

// EntityHistory returns the audit entries for one entity
func (h *ActivityHandler) EntityHistory(c *gin.Context) {
	entityType := activity.EntityType(c.Param("type"))
	switch entityType {
	case activity.EntityTask, activity.EntityProject, activity.EntityUser, activity.EntityComment:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entity type"})
		return
	}

	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entity ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.repo.FindByEntity(c.Request.Context(), entityType, entityID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": logs})
}

// UserHistory returns the audit entries produced by one user
func (h *ActivityHandler) UserHistory(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.repo.FindByUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": logs})
}
