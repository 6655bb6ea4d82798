package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Raza-100/medication-management/services"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type createScheduleRequest struct {
	MedicationID  uint            `json:"medicationId" validate:"required"`
	ScheduledTime string          `json:"scheduledTime" validate:"required"`
	DaysOfWeek    json.RawMessage `json:"daysOfWeek"`
}

func (h *Handler) ListTodaySchedules(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	doses, err := h.Schedules.ListToday(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "list_schedules", err, "Failed to fetch schedules", "")
		return
	}
	c.JSON(http.StatusOK, doses)
}

func (h *Handler) CreateSchedule(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req createScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	var days datatypes.JSON
	if len(req.DaysOfWeek) > 0 && string(req.DaysOfWeek) != "null" {
		days = datatypes.JSON(req.DaysOfWeek)
	}

	id, err := h.Schedules.Create(c.Request.Context(), userID, services.CreateScheduleInput{
		MedicationID:  req.MedicationID,
		ScheduledTime: req.ScheduledTime,
		DaysOfWeek:    days,
	})
	if err != nil {
		respondError(c, "create_schedule", err, "Failed to create schedule", "Medication not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Schedule created successfully",
		"scheduleId": id,
	})
}
