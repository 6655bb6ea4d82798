package handlers

import (
	"errors"
	"net/http"

	"github.com/Raza-100/medication-management/services"
	"github.com/Raza-100/medication-management/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Phone       string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		utils.Logger.Warn("register_validation_failed", zap.String("client_ip", c.ClientIP()))
		return
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dateOfBirth must be a date in YYYY-MM-DD format"})
		return
	}

	userID, err := h.Auth.Register(c.Request.Context(), services.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		DateOfBirth: dob,
		Phone:       req.Phone,
	})
	if errors.Is(err, services.ErrDuplicate) {
		utils.Logger.Warn("register_email_exists")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}
	if err != nil {
		respondError(c, "register", err, "Registration failed", "")
		return
	}

	utils.Logger.Info("register_success", zap.Uint("user_id", userID))
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"userId":  userID,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		utils.Logger.Warn("login_failed", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		respondError(c, "login", err, "Login failed", "")
		return
	}

	utils.Logger.Info("login_success", zap.Uint("user_id", res.UserID))
	c.JSON(http.StatusOK, gin.H{
		"token":  res.Token,
		"userId": res.UserID,
	})
}
