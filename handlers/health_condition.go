package handlers

import (
	"net/http"

	"github.com/Raza-100/medication-management/services"
	"github.com/gin-gonic/gin"
)

type createConditionRequest struct {
	ConditionName string `json:"conditionName" validate:"required"`
	DiagnosisDate string `json:"diagnosisDate" validate:"omitempty,datetime=2006-01-02"`
	Notes         string `json:"notes"`
	IsPrimary     bool   `json:"isPrimary"`
}

func (h *Handler) ListHealthConditions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conditions, err := h.Conditions.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "list_conditions", err, "Failed to fetch health conditions", "")
		return
	}
	c.JSON(http.StatusOK, conditions)
}

func (h *Handler) CreateHealthCondition(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req createConditionRequest
	if !bindJSON(c, &req) {
		return
	}

	diagnosed, err := parseDate(req.DiagnosisDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "diagnosisDate must be a date in YYYY-MM-DD format"})
		return
	}

	id, err := h.Conditions.Create(c.Request.Context(), userID, services.CreateConditionInput{
		ConditionName: req.ConditionName,
		DiagnosisDate: diagnosed,
		Notes:         req.Notes,
		IsPrimary:     req.IsPrimary,
	})
	if err != nil {
		respondError(c, "create_condition", err, "Failed to add health condition", "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Health condition added successfully",
		"conditionId": id,
	})
}
