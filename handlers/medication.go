package handlers

import (
	"net/http"

	"github.com/Raza-100/medication-management/services"
	"github.com/gin-gonic/gin"
)

type createMedicationRequest struct {
	MedicineName     string `json:"medicineName" validate:"required"`
	GenericName      string `json:"genericName"`
	Dosage           string `json:"dosage"`
	DosageUnit       string `json:"dosageUnit"`
	Frequency        string `json:"frequency"`
	StockQuantity    int    `json:"stockQuantity"`
	ReorderThreshold int    `json:"reorderThreshold"`
}

type updateStockRequest struct {
	StockQuantity *int `json:"stockQuantity" validate:"required"`
}

func (h *Handler) ListMedications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	meds, err := h.Medications.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "list_medications", err, "Failed to fetch medications", "")
		return
	}
	c.JSON(http.StatusOK, meds)
}

func (h *Handler) GetMedication(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "Medication not found")
	if !ok {
		return
	}

	med, err := h.Medications.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, "get_medication", err, "Failed to fetch medication", "Medication not found")
		return
	}
	c.JSON(http.StatusOK, med)
}

func (h *Handler) CreateMedication(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req createMedicationRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.Medications.Create(c.Request.Context(), userID, services.CreateMedicationInput{
		MedicineName:     req.MedicineName,
		GenericName:      req.GenericName,
		Dosage:           req.Dosage,
		DosageUnit:       req.DosageUnit,
		Frequency:        req.Frequency,
		StockQuantity:    req.StockQuantity,
		ReorderThreshold: req.ReorderThreshold,
	})
	if err != nil {
		respondError(c, "create_medication", err, "Failed to add medication", "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Medication added successfully",
		"medicationId": id,
	})
}

func (h *Handler) UpdateStock(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "Medication not found")
	if !ok {
		return
	}
	var req updateStockRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Medications.UpdateStock(c.Request.Context(), userID, id, *req.StockQuantity); err != nil {
		respondError(c, "update_stock", err, "Failed to update stock", "Medication not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock updated successfully"})
}
