package handlers

import (
	"net/http"
	"strconv"

	"github.com/Raza-100/medication-management/services"
	"github.com/gin-gonic/gin"
)

type logDoseRequest struct {
	ScheduleID  uint   `json:"scheduleId" validate:"required"`
	TakenStatus string `json:"takenStatus" validate:"required,oneof=taken skipped missed pending"`
	Notes       string `json:"notes"`
}

func (h *Handler) LogDose(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req logDoseRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.Adherence.LogDose(c.Request.Context(), userID, services.LogDoseInput{
		ScheduleID:  req.ScheduleID,
		TakenStatus: req.TakenStatus,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, "log_adherence", err, "Failed to log adherence", "Schedule not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Adherence logged successfully",
		"adherenceId": id,
	})
}

func (h *Handler) AdherenceHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	days := services.DefaultHistoryDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}

	history, err := h.Adherence.History(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, "adherence_history", err, "Failed to fetch adherence history", "")
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) AdherenceStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.Adherence.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "adherence_stats", err, "Failed to fetch statistics", "")
		return
	}
	c.JSON(http.StatusOK, stats)
}
