package handlers

import (
	"net/http"

	"github.com/Raza-100/medication-management/services"
	"github.com/gin-gonic/gin"
)

type orderItemRequest struct {
	MedicationID uint    `json:"medicationId" validate:"required"`
	Quantity     int     `json:"quantity" validate:"gt=0"`
	UnitPrice    float64 `json:"unitPrice" validate:"gte=0"`
}

type createOrderRequest struct {
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	PharmacyName    string             `json:"pharmacyName"`
	DeliveryAddress string             `json:"deliveryAddress"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders, err := h.Orders.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "list_orders", err, "Failed to fetch orders", "")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req createOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, services.OrderItemInput{
			MedicationID: it.MedicationID,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
		})
	}

	id, err := h.Orders.Create(c.Request.Context(), userID, services.CreateOrderInput{
		Items:           items,
		PharmacyName:    req.PharmacyName,
		DeliveryAddress: req.DeliveryAddress,
	})
	if err != nil {
		respondError(c, "create_order", err, "Failed to create order", "Medication not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"orderId": id,
	})
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "Order not found")
	if !ok {
		return
	}
	var req updateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Orders.UpdateStatus(c.Request.Context(), userID, id, req.Status); err != nil {
		respondError(c, "update_order", err, "Failed to update order", "Order not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}
