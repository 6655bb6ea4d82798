package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Raza-100/medication-management/models"
	"gorm.io/gorm"
)

type CreateMedicationInput struct {
	MedicineName     string
	GenericName      string
	Dosage           string
	DosageUnit       string
	Frequency        string
	StockQuantity    int
	ReorderThreshold int
}

type MedicationService struct {
	db *gorm.DB
}

func NewMedicationService(db *gorm.DB) *MedicationService {
	return &MedicationService{db: db}
}

// List returns the user's active medications in alphabetical order.
func (s *MedicationService) List(ctx context.Context, userID uint) ([]models.Medication, error) {
	var meds []models.Medication
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("medicine_name").
		Find(&meds).Error
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	return nonNil(meds), nil
}

// Get returns one owned medication with its active schedules.
func (s *MedicationService) Get(ctx context.Context, userID, medicationID uint) (*models.Medication, error) {
	var med models.Medication
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", medicationID, userID).
		Take(&med).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get medication: %w", err)
	}

	err = s.db.WithContext(ctx).
		Where("medication_id = ? AND is_active = ?", med.ID, true).
		Order("scheduled_time").
		Find(&med.Schedules).Error
	if err != nil {
		return nil, fmt.Errorf("list medication schedules: %w", err)
	}
	med.Schedules = nonNil(med.Schedules)
	return &med, nil
}

func (s *MedicationService) Create(ctx context.Context, userID uint, in CreateMedicationInput) (uint, error) {
	med := models.Medication{
		UserID:           userID,
		MedicineName:     in.MedicineName,
		GenericName:      in.GenericName,
		Dosage:           in.Dosage,
		DosageUnit:       in.DosageUnit,
		Frequency:        in.Frequency,
		StockQuantity:    in.StockQuantity,
		ReorderThreshold: in.ReorderThreshold,
		IsActive:         true,
	}
	if err := s.db.WithContext(ctx).Create(&med).Error; err != nil {
		return 0, fmt.Errorf("create medication: %w", err)
	}
	return med.ID, nil
}

// UpdateStock sets the stock to an absolute quantity.
func (s *MedicationService) UpdateStock(ctx context.Context, userID, medicationID uint, quantity int) error {
	res := s.db.WithContext(ctx).
		Model(&models.Medication{}).
		Where("id = ? AND user_id = ?", medicationID, userID).
		Update("stock_quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("update stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
