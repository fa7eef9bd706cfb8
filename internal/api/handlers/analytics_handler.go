package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/analytics"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandler handles HTTP requests for metrics rollups
type AnalyticsHandler struct {
	service analytics.Service
}

// NewAnalyticsHandler creates a new AnalyticsHandler instance
func NewAnalyticsHandler(service analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// rollupOrder reads the sort query parameter, defaulting to best performing
// first. Reports false after writing a 400 when the key is unknown.
func rollupOrder(c *gin.Context) (analytics.RollupOrder, bool) {
	order := analytics.RollupOrder(c.DefaultQuery("sort", string(analytics.OrderByCompletionDesc)))
	switch order {
	case analytics.OrderByName, analytics.OrderByCompletionAsc, analytics.OrderByCompletionDesc:
		return order, true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort key"})
		return "", false
	}
}

// Overview returns the top-level KPI snapshot
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute overview"})
		return
	}

	c.JSON(http.StatusOK, overview)
}

// Departments returns the per-department rollup
func (h *AnalyticsHandler) Departments(c *gin.Context) {
	order, ok := rollupOrder(c)
	if !ok {
		return
	}

	departments, err := h.service.Departments(c.Request.Context(), time.Now(), order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute department rollup"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"departments": departments})
}

// Employees returns the per-employee rollup
func (h *AnalyticsHandler) Employees(c *gin.Context) {
	order, ok := rollupOrder(c)
	if !ok {
		return
	}

	employees, err := h.service.Employees(c.Request.Context(), time.Now(), order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute employee rollup"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"employees": employees})
}

// ExportDepartmentsCSV streams the department rollup as a CSV attachment
func (h *AnalyticsHandler) ExportDepartmentsCSV(c *gin.Context) {
	filename := fmt.Sprintf("department-report-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.service.ExportDepartmentsCSV(c.Request.Context(), time.Now(), c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export report"})
		return
	}
}
