package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Raza-100/medication-management/middleware"
	"github.com/Raza-100/medication-management/models"
	"github.com/Raza-100/medication-management/services"
	"github.com/Raza-100/medication-management/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (uint, error)
	Login(ctx context.Context, email, password string) (services.LoginResult, error)
}

type DashboardService interface {
	Get(ctx context.Context, userID uint) (*services.Dashboard, error)
}

type MedicationService interface {
	List(ctx context.Context, userID uint) ([]models.Medication, error)
	Get(ctx context.Context, userID, medicationID uint) (*models.Medication, error)
	Create(ctx context.Context, userID uint, in services.CreateMedicationInput) (uint, error)
	UpdateStock(ctx context.Context, userID, medicationID uint, quantity int) error
}

type ScheduleService interface {
	ListToday(ctx context.Context, userID uint) ([]services.TodayDose, error)
	Create(ctx context.Context, userID uint, in services.CreateScheduleInput) (uint, error)
}

type AdherenceService interface {
	LogDose(ctx context.Context, userID uint, in services.LogDoseInput) (uint, error)
	History(ctx context.Context, userID uint, days int) ([]services.HistoryEntry, error)
	Stats(ctx context.Context, userID uint) (*services.AdherenceStats, error)
}

type OrderService interface {
	List(ctx context.Context, userID uint) ([]models.Order, error)
	Create(ctx context.Context, userID uint, in services.CreateOrderInput) (uint, error)
	UpdateStatus(ctx context.Context, userID, orderID uint, status string) error
}

type HealthConditionService interface {
	List(ctx context.Context, userID uint) ([]models.HealthCondition, error)
	Create(ctx context.Context, userID uint, in services.CreateConditionInput) (uint, error)
}

type NotificationService interface {
	List(ctx context.Context, userID uint) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uint) error
}

// Handler serves the JSON API on top of the domain services.
type Handler struct {
	Auth          AuthService
	Dashboard     DashboardService
	Medications   MedicationService
	Schedules     ScheduleService
	Adherence     AdherenceService
	Orders        OrderService
	Conditions    HealthConditionService
	Notifications NotificationService
}

const dateLayout = "2006-01-02"

func currentUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

// parseID reads a numeric path parameter. Anything else cannot name a row
// the caller owns, so it is answered with 404.
func parseID(c *gin.Context, param, notFound string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
		return 0, false
	}
	return uint(id), true
}

// bindJSON binds and validates a request body, answering 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	if err := middleware.ValidateStruct(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": middleware.ValidationMessage(err)})
		return false
	}
	return true
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// respondError maps service errors to HTTP statuses. Unexpected errors are
// logged and answered with the endpoint's generic message.
func respondError(c *gin.Context, handler string, err error, failMessage, notFoundMessage string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
	default:
		userID, _ := middleware.CurrentUserID(c)
		utils.Logger.Error(handler+"_failed",
			zap.Error(err),
			zap.Uint("user_id", userID),
		)
		utils.ErrorCount.WithLabelValues(handler, "internal").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMessage})
	}
}
