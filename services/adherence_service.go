package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Raza-100/medication-management/models"
	"github.com/Raza-100/medication-management/utils"
	"gorm.io/gorm"
)

const (
	DefaultHistoryDays = 30
	statsWindowDays    = 30
)

type LogDoseInput struct {
	ScheduleID  uint
	TakenStatus string
	Notes       string
}

type HistoryEntry struct {
	ID            uint       `json:"id"`
	ScheduleID    uint       `json:"schedule_id"`
	TakenStatus   string     `json:"taken_status"`
	ActualTime    *time.Time `json:"actual_time"`
	ScheduledTime time.Time  `json:"scheduled_time"`
	Notes         string     `json:"notes"`
	MedicineName  string     `json:"medicine_name"`
	Dosage        string     `json:"dosage"`
}

// AdherenceStats covers a fixed trailing window. AdherencePercentage is nil
// when no doses were recorded.
type AdherenceStats struct {
	TotalDoses          int64    `json:"total_doses"`
	TakenCount          int64    `json:"taken_count"`
	SkippedCount        int64    `json:"skipped_count"`
	MissedCount         int64    `json:"missed_count"`
	AdherencePercentage *float64 `json:"adherence_percentage"`
}

const ownedScheduleQuery = `
SELECT s.medication_id
FROM schedules s
JOIN medications m ON s.medication_id = m.id
WHERE s.id = ? AND m.user_id = ?`

const historyQuery = `
SELECT
	al.id, al.schedule_id, al.taken_status, al.actual_time, al.scheduled_time, al.notes,
	m.medicine_name, m.dosage
FROM adherence_log al
JOIN schedules s ON al.schedule_id = s.id
JOIN medications m ON s.medication_id = m.id
WHERE al.user_id = ? AND al.scheduled_time >= ?
ORDER BY al.scheduled_time DESC, al.id DESC`

const statsQuery = `
SELECT
	COUNT(*) AS total_doses,
	COUNT(*) FILTER (WHERE taken_status = 'taken') AS taken_count,
	COUNT(*) FILTER (WHERE taken_status = 'skipped') AS skipped_count,
	COUNT(*) FILTER (WHERE taken_status = 'missed') AS missed_count,
	ROUND(COUNT(*) FILTER (WHERE taken_status = 'taken') * 100.0 / NULLIF(COUNT(*), 0), 2)::float8 AS adherence_percentage
FROM adherence_log
WHERE user_id = ? AND scheduled_time >= ?`

type AdherenceService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAdherenceService(db *gorm.DB) *AdherenceService {
	return &AdherenceService{db: db, now: time.Now}
}

// LogDose appends one adherence entry. A "taken" dose also takes one unit off
// the medication's stock, with no lower bound. Both writes commit together.
func (s *AdherenceService) LogDose(ctx context.Context, userID uint, in LogDoseInput) (uint, error) {
	now := s.now()
	entry := models.AdherenceLog{
		ScheduleID:    in.ScheduleID,
		UserID:        userID,
		TakenStatus:   in.TakenStatus,
		ScheduledTime: now,
		Notes:         in.Notes,
	}
	if in.TakenStatus == models.StatusTaken {
		entry.ActualTime = &now
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var medicationID uint
		res := tx.Raw(ownedScheduleQuery, in.ScheduleID, userID).Scan(&medicationID)
		if res.Error != nil {
			return fmt.Errorf("lookup schedule: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("insert adherence entry: %w", err)
		}

		if in.TakenStatus != models.StatusTaken {
			return nil
		}
		err := tx.Model(&models.Medication{}).
			Where("id = ?", medicationID).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", 1)).Error
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	utils.DosesLogged.WithLabelValues(in.TakenStatus).Inc()
	return entry.ID, nil
}

// History lists entries from the trailing days, newest first.
func (s *AdherenceService) History(ctx context.Context, userID uint, days int) ([]HistoryEntry, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	since := s.now().AddDate(0, 0, -days)

	var entries []HistoryEntry
	if err := s.db.WithContext(ctx).Raw(historyQuery, userID, since).Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("adherence history: %w", err)
	}
	return nonNil(entries), nil
}

func (s *AdherenceService) Stats(ctx context.Context, userID uint) (*AdherenceStats, error) {
	since := s.now().AddDate(0, 0, -statsWindowDays)

	var stats AdherenceStats
	if err := s.db.WithContext(ctx).Raw(statsQuery, userID, since).Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("adherence stats: %w", err)
	}
	return &stats, nil
}
