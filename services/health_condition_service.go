package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Raza-100/medication-management/models"
	"gorm.io/gorm"
)

type CreateConditionInput struct {
	ConditionName string
	DiagnosisDate *time.Time
	Notes         string
	IsPrimary     bool
}

type HealthConditionService struct {
	db *gorm.DB
}

func NewHealthConditionService(db *gorm.DB) *HealthConditionService {
	return &HealthConditionService{db: db}
}

// List orders the primary condition first, then the most recent diagnoses.
func (s *HealthConditionService) List(ctx context.Context, userID uint) ([]models.HealthCondition, error) {
	var conditions []models.HealthCondition
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_primary DESC").
		Order("diagnosis_date DESC NULLS LAST").
		Find(&conditions).Error
	if err != nil {
		return nil, fmt.Errorf("list health conditions: %w", err)
	}
	return nonNil(conditions), nil
}

// Create adds a condition. A new primary condition demotes any previous one,
// so a user has at most one primary condition.
func (s *HealthConditionService) Create(ctx context.Context, userID uint, in CreateConditionInput) (uint, error) {
	condition := models.HealthCondition{
		UserID:        userID,
		ConditionName: in.ConditionName,
		DiagnosisDate: in.DiagnosisDate,
		Notes:         in.Notes,
		IsPrimary:     in.IsPrimary,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.IsPrimary {
			err := tx.Model(&models.HealthCondition{}).
				Where("user_id = ? AND is_primary = ?", userID, true).
				Update("is_primary", false).Error
			if err != nil {
				return fmt.Errorf("demote primary condition: %w", err)
			}
		}
		if err := tx.Create(&condition).Error; err != nil {
			return fmt.Errorf("insert health condition: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return condition.ID, nil
}
