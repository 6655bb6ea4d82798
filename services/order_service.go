package services

import (
	"context"
	"fmt"

	"github.com/Raza-100/medication-management/models"
	"github.com/Raza-100/medication-management/utils"
	"gorm.io/gorm"
)

type OrderItemInput struct {
	MedicationID uint
	Quantity     int
	UnitPrice    float64
}

type CreateOrderInput struct {
	Items           []OrderItemInput
	PharmacyName    string
	DeliveryAddress string
}

const orderItemsQuery = `
SELECT oi.id, oi.order_id, oi.medication_id, oi.quantity_ordered, oi.unit_price,
	m.medicine_name, m.dosage
FROM order_items oi
JOIN medications m ON oi.medication_id = m.id
WHERE oi.order_id IN ?
ORDER BY oi.id`

type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// List returns the user's orders, newest first, each with its line items.
func (s *OrderService) List(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("order_date DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		return []models.Order{}, nil
	}

	ids := make([]uint, 0, len(orders))
	byID := make(map[uint]int, len(orders))
	for i := range orders {
		orders[i].Items = []models.OrderItem{}
		ids = append(ids, orders[i].ID)
		byID[orders[i].ID] = i
	}

	var items []models.OrderItem
	if err := s.db.WithContext(ctx).Raw(orderItemsQuery, ids).Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	for _, item := range items {
		if i, ok := byID[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return orders, nil
}

// Create places an order with its items, records the item total and notifies
// the user. All writes commit or roll back together.
func (s *OrderService) Create(ctx context.Context, userID uint, in CreateOrderInput) (uint, error) {
	if len(in.Items) == 0 {
		return 0, fmt.Errorf("%w: order has no items", ErrValidation)
	}

	order := models.Order{
		UserID:          userID,
		Status:          models.OrderStatusPending,
		PharmacyName:    in.PharmacyName,
		DeliveryAddress: in.DeliveryAddress,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureMedicationsOwned(tx, userID, in.Items); err != nil {
			return err
		}

		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		total := 0
		items := make([]models.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			items = append(items, models.OrderItem{
				OrderID:         order.ID,
				MedicationID:    it.MedicationID,
				QuantityOrdered: it.Quantity,
				UnitPrice:       it.UnitPrice,
			})
			total += it.Quantity
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}

		if err := tx.Model(&order).Update("total_items", total).Error; err != nil {
			return fmt.Errorf("update order total: %w", err)
		}

		note := models.Notification{
			UserID:           userID,
			NotificationType: models.NotificationOrderUpdate,
			Title:            "Order Placed",
			Message:          fmt.Sprintf("Your medication order #%d has been placed successfully", order.ID),
		}
		if err := tx.Create(&note).Error; err != nil {
			return fmt.Errorf("insert order notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	utils.OrdersCreated.Inc()
	return order.ID, nil
}

// UpdateStatus overwrites the status; transitions are not checked.
func (s *OrderService) UpdateStatus(ctx context.Context, userID, orderID uint, status string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND user_id = ?", orderID, userID).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ensureMedicationsOwned rejects items that reference another user's medication.
func ensureMedicationsOwned(tx *gorm.DB, userID uint, items []OrderItemInput) error {
	seen := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.MedicationID]; ok {
			continue
		}
		seen[it.MedicationID] = struct{}{}
		ids = append(ids, it.MedicationID)
	}

	var owned int64
	err := tx.Model(&models.Medication{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Count(&owned).Error
	if err != nil {
		return fmt.Errorf("check order medications: %w", err)
	}
	if owned != int64(len(ids)) {
		return ErrNotFound
	}
	return nil
}
