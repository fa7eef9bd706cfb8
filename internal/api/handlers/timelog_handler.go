package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/dto"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/middleware"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/timelog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TimelogHandler handles HTTP requests for time tracking
type TimelogHandler struct {
	service timelog.Service
}

// NewTimelogHandler creates a new TimelogHandler instance
func NewTimelogHandler(service timelog.Service) *TimelogHandler {
	return &TimelogHandler{service: service}
}

// StartTimer begins a timer for the authenticated user
func (h *TimelogHandler) StartTimer(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.StartTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.service.StartTimer(c.Request.Context(), userID, req.TaskID, req.Notes)
	if err != nil {
		if errors.Is(err, timelog.ErrTimerRunning) {
			c.JSON(http.StatusConflict, gin.H{"error": "a timer is already running"})
			return
		}
		if errors.Is(err, timelog.ErrUnknownTask) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start timer"})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// StopTimer stops the running timer and records the interval
func (h *TimelogHandler) StopTimer(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	entry, err := h.service.StopTimer(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, timelog.ErrNoActiveTimer) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no timer is running"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stop timer"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"message": "interval too short, nothing recorded"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// ActiveTimer returns the authenticated user's running timer, if any
func (h *TimelogHandler) ActiveTimer(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	session, running := h.service.ActiveTimer(userID)
	if !running {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"active": true, "session": session})
}

// LogManual records a manually entered duration
func (h *TimelogHandler) LogManual(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.ManualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.service.LogManual(c.Request.Context(), timelog.ManualEntryInput{
		TaskID:  req.TaskID,
		UserID:  userID,
		Hours:   req.Hours,
		Minutes: req.Minutes,
		Date:    req.Date,
		Notes:   req.Notes,
	})
	if err != nil {
		if errors.Is(err, timelog.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time entry data"})
			return
		}
		if errors.Is(err, timelog.ErrUnknownTask) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record time entry"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"message": "zero duration, nothing recorded"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// TaskEntries returns the time entries of one task
func (h *TimelogHandler) TaskEntries(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	entries, err := h.service.TaskEntries(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":       entries,
		"total_minutes": timelog.TotalMinutes(entries),
	})
}

// WeeklyTotals returns the authenticated user's trailing seven day totals
func (h *TimelogHandler) WeeklyTotals(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	totals, err := h.service.WeeklyTotals(c.Request.Context(), userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute totals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": totals})
}

// DeleteEntry removes a time entry
func (h *TimelogHandler) DeleteEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry ID"})
		return
	}

	if err := h.service.DeleteEntry(c.Request.Context(), id); err != nil {
		if errors.Is(err, timelog.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "entry deleted"})
}

// ExportCSV streams the filtered entries as a CSV attachment
func (h *TimelogHandler) ExportCSV(c *gin.Context) {
	var filter timelog.EntryFilter

	if taskID := c.Query("task_id"); taskID != "" {
		id, err := uuid.Parse(taskID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
			return
		}
		filter.TaskID = &id
	}
	if userID := c.Query("user_id"); userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
			return
		}
		filter.UserID = &id
	}
	filter.DateStart = c.Query("date_start")
	filter.DateEnd = c.Query("date_end")

	filename := fmt.Sprintf("time-entries-%s.csv", time.Now().Format(timelog.DateLayout))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.service.ExportCSV(c.Request.Context(), filter, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export entries"})
		return
	}
}
