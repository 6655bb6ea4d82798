package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dash, err := h.Dashboard.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "dashboard", err, "Failed to fetch dashboard data", "")
		return
	}
	c.JSON(http.StatusOK, dash)
}
