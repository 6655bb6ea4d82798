package services

import (
	"context"
	"fmt"

	"github.com/Raza-100/medication-management/models"
	"gorm.io/gorm"
)

const notificationPageSize = 20

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	var notes []models.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(notificationPageSize).
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return nonNil(notes), nil
}

// MarkRead flags an owned notification as read. Matching no row is not an error.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}
