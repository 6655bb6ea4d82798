package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Raza-100/medication-management/models"
	"gorm.io/gorm"
)

const NoPrimaryCondition = "No condition recorded"

type LowStockMedication struct {
	ID               uint   `json:"id"`
	MedicineName     string `json:"medicine_name"`
	StockQuantity    int    `json:"stock_quantity"`
	ReorderThreshold int    `json:"reorder_threshold"`
}

type DailyCounts struct {
	TakenCount   int64 `json:"taken_count"`
	SkippedCount int64 `json:"skipped_count"`
	MissedCount  int64 `json:"missed_count"`
}

type Dashboard struct {
	TodayMedications    []TodayDose          `json:"todayMedications"`
	PrimaryCondition    string               `json:"primaryCondition"`
	LowStockMedications []LowStockMedication `json:"lowStockMedications"`
	AdherenceStats      DailyCounts          `json:"adherenceStats"`
}

const dailyCountsQuery = `
SELECT
	COUNT(*) FILTER (WHERE taken_status = 'taken') AS taken_count,
	COUNT(*) FILTER (WHERE taken_status = 'skipped') AS skipped_count,
	COUNT(*) FILTER (WHERE taken_status = 'missed') AS missed_count
FROM adherence_log
WHERE user_id = ? AND scheduled_time >= ? AND scheduled_time < ?`

type DashboardService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db, now: time.Now}
}

// Get assembles the dashboard. It only reads, and any part may be empty.
func (s *DashboardService) Get(ctx context.Context, userID uint) (*Dashboard, error) {
	now := s.now()
	db := s.db.WithContext(ctx)

	doses, err := listTodayDoses(ctx, s.db, userID, now)
	if err != nil {
		return nil, fmt.Errorf("dashboard today's doses: %w", err)
	}

	var names []string
	err = db.Model(&models.HealthCondition{}).
		Where("user_id = ? AND is_primary = ?", userID, true).
		Order("created_at DESC").
		Limit(1).
		Pluck("condition_name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("dashboard primary condition: %w", err)
	}
	primary := NoPrimaryCondition
	if len(names) > 0 && names[0] != "" {
		primary = names[0]
	}

	lowStock := []LowStockMedication{}
	err = db.Model(&models.Medication{}).
		Select("id", "medicine_name", "stock_quantity", "reorder_threshold").
		Where("user_id = ? AND stock_quantity <= reorder_threshold", userID).
		Order("stock_quantity").
		Scan(&lowStock).Error
	if err != nil {
		return nil, fmt.Errorf("dashboard low stock: %w", err)
	}

	from, to := dayBounds(now)
	var counts DailyCounts
	if err := db.Raw(dailyCountsQuery, userID, from, to).Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("dashboard daily counts: %w", err)
	}

	return &Dashboard{
		TodayMedications:    doses,
		PrimaryCondition:    primary,
		LowStockMedications: nonNil(lowStock),
		AdherenceStats:      counts,
	}, nil
}
