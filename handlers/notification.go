package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notes, err := h.Notifications.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "list_notifications", err, "Failed to fetch notifications", "")
		return
	}
	c.JSON(http.StatusOK, notes)
}

const notificationReadMessage = "Notification marked as read"

// MarkNotificationRead answers 200 even when the id matches nothing, including
// ids that are not numbers.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusOK, gin.H{"message": notificationReadMessage})
		return
	}

	if err := h.Notifications.MarkRead(c.Request.Context(), userID, uint(id)); err != nil {
		respondError(c, "mark_notification", err, "Failed to update notification", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": notificationReadMessage})
}
