package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Raza-100/medication-management/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TodayDose is an active schedule joined with the latest adherence entry
// logged for it today.
type TodayDose struct {
	ScheduleID    uint           `json:"schedule_id"`
	ScheduledTime string         `json:"scheduled_time"`
	DaysOfWeek    datatypes.JSON `json:"days_of_week"`
	MedicationID  uint           `json:"medication_id"`
	MedicineName  string         `json:"medicine_name"`
	Dosage        string         `json:"dosage"`
	DosageUnit    string         `json:"dosage_unit"`
	Status        string         `json:"status"`
	ActualTime    *time.Time     `json:"actual_time"`
}

const todayDosesQuery = `
SELECT
	s.id AS schedule_id, s.scheduled_time, COALESCE(s.days_of_week, '[]'::jsonb) AS days_of_week,
	m.id AS medication_id, m.medicine_name, m.dosage, m.dosage_unit,
	COALESCE(al.taken_status, 'pending') AS status,
	al.actual_time
FROM schedules s
JOIN medications m ON s.medication_id = m.id
LEFT JOIN LATERAL (
	SELECT l.taken_status, l.actual_time
	FROM adherence_log l
	WHERE l.schedule_id = s.id AND l.scheduled_time >= ? AND l.scheduled_time < ?
	ORDER BY l.scheduled_time DESC, l.id DESC
	LIMIT 1
) al ON TRUE
WHERE m.user_id = ? AND s.is_active = TRUE
ORDER BY s.scheduled_time, s.id`

func listTodayDoses(ctx context.Context, db *gorm.DB, userID uint, now time.Time) ([]TodayDose, error) {
	from, to := dayBounds(now)
	doses := []TodayDose{}
	if err := db.WithContext(ctx).Raw(todayDosesQuery, from, to, userID).Scan(&doses).Error; err != nil {
		return nil, err
	}
	return nonNil(doses), nil
}

type CreateScheduleInput struct {
	MedicationID  uint
	ScheduledTime string
	DaysOfWeek    datatypes.JSON
}

type ScheduleService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db, now: time.Now}
}

// ListToday returns every active schedule of the user's medications with
// today's status. days_of_week does not filter the result.
func (s *ScheduleService) ListToday(ctx context.Context, userID uint) ([]TodayDose, error) {
	doses, err := listTodayDoses(ctx, s.db, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("list today's schedules: %w", err)
	}
	return doses, nil
}

func (s *ScheduleService) Create(ctx context.Context, userID uint, in CreateScheduleInput) (uint, error) {
	at, err := normalizeTimeOfDay(in.ScheduledTime)
	if err != nil {
		return 0, err
	}

	var med models.Medication
	err = s.db.WithContext(ctx).Select("id").
		Where("id = ? AND user_id = ?", in.MedicationID, userID).
		Take(&med).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup medication: %w", err)
	}

	days := in.DaysOfWeek
	if len(days) == 0 {
		days = datatypes.JSON("[]")
	}

	schedule := models.Schedule{
		MedicationID:  med.ID,
		ScheduledTime: at,
		DaysOfWeek:    days,
		IsActive:      true,
	}
	if err := s.db.WithContext(ctx).Create(&schedule).Error; err != nil {
		return 0, fmt.Errorf("create schedule: %w", err)
	}
	return schedule.ID, nil
}

// normalizeTimeOfDay accepts "H:MM", "HH:MM" or "HH:MM:SS" and renders
// "HH:MM:SS" so that lexical order matches chronological order.
func normalizeTimeOfDay(raw string) (string, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("%w: scheduled time %q is not a time of day", ErrValidation, raw)
}
