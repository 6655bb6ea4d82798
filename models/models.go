package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusTaken   = "taken"
	StatusSkipped = "skipped"
	StatusMissed  = "missed"
	StatusPending = "pending"
)

const (
	OrderStatusPending = "pending"

	NotificationOrderUpdate = "order_update"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	FirstName    string     `gorm:"size:100" json:"first_name"`
	LastName     string     `gorm:"size:100" json:"last_name"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	DateOfBirth  *time.Time `gorm:"type:date" json:"date_of_birth"`
	Phone        string     `gorm:"size:32" json:"phone"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

type Medication struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"index;not null" json:"user_id"`
	MedicineName     string     `gorm:"size:255;not null" json:"medicine_name"`
	GenericName      string     `gorm:"size:255" json:"generic_name"`
	Dosage           string     `gorm:"size:100" json:"dosage"`
	DosageUnit       string     `gorm:"size:50" json:"dosage_unit"`
	Frequency        string     `gorm:"size:100" json:"frequency"`
	StockQuantity    int        `gorm:"not null" json:"stock_quantity"`
	ReorderThreshold int        `gorm:"not null" json:"reorder_threshold"`
	IsActive         bool       `gorm:"not null" json:"is_active"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	Schedules        []Schedule `gorm:"foreignKey:MedicationID;constraint:OnDelete:CASCADE" json:"schedules,omitempty"`
}

// Schedule is a time-of-day rule. DaysOfWeek is stored as given and does not
// drive any filtering.
type Schedule struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	MedicationID  uint           `gorm:"index;not null" json:"medication_id"`
	ScheduledTime string         `gorm:"size:8;not null" json:"scheduled_time"`
	DaysOfWeek    datatypes.JSON `json:"days_of_week"`
	IsActive      bool           `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

type AdherenceLog struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ScheduleID    uint       `gorm:"index;not null" json:"schedule_id"`
	UserID        uint       `gorm:"index;not null" json:"user_id"`
	TakenStatus   string     `gorm:"size:16;not null" json:"taken_status"`
	ScheduledTime time.Time  `gorm:"index;not null" json:"scheduled_time"`
	ActualTime    *time.Time `json:"actual_time"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (AdherenceLog) TableName() string {
	return "adherence_log"
}

type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          uint        `gorm:"index;not null" json:"user_id"`
	OrderDate       time.Time   `gorm:"autoCreateTime" json:"order_date"`
	Status          string      `gorm:"size:32;not null" json:"status"`
	PharmacyName    string      `gorm:"size:255" json:"pharmacy_name"`
	DeliveryAddress string      `json:"delivery_address"`
	TotalItems      int         `gorm:"not null" json:"total_items"`
	Items           []OrderItem `gorm:"-" json:"items"`
}

type OrderItem struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	OrderID         uint    `gorm:"index;not null" json:"order_id"`
	MedicationID    uint    `gorm:"not null" json:"medication_id"`
	QuantityOrdered int     `gorm:"not null" json:"quantity_ordered"`
	UnitPrice       float64 `json:"unit_price"`
	MedicineName    string  `gorm:"->;-:migration" json:"medicine_name"`
	Dosage          string  `gorm:"->;-:migration" json:"dosage"`
}

type HealthCondition struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"index;not null" json:"user_id"`
	ConditionName string     `gorm:"size:255;not null" json:"condition_name"`
	DiagnosisDate *time.Time `gorm:"type:date" json:"diagnosis_date"`
	Notes         string     `json:"notes"`
	IsPrimary     bool       `gorm:"not null" json:"is_primary"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

type Notification struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"index;not null" json:"user_id"`
	NotificationType string    `gorm:"size:32;not null" json:"notification_type"`
	Title            string    `gorm:"size:255" json:"title"`
	Message          string    `json:"message"`
	IsRead           bool      `gorm:"not null" json:"is_read"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// All lists every model owned by the schema, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Medication{},
		&Schedule{},
		&AdherenceLog{},
		&Order{},
		&OrderItem{},
		&HealthCondition{},
		&Notification{},
	}
}
