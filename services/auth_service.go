package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Raza-100/medication-management/models"
	"github.com/Raza-100/medication-management/utils"
	"gorm.io/gorm"
)

type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	DateOfBirth *time.Time
	Phone       string
}

type LoginResult struct {
	Token     string    `json:"token"`
	UserID    uint      `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenIssuer signs identity tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uint) (string, time.Time, error)
}

// AuthService is the credential store: it owns user rows and password hashes.
type AuthService struct {
	db     *gorm.DB
	tokens TokenIssuer
}

func NewAuthService(db *gorm.DB, tokens TokenIssuer) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (uint, error) {
	var existing models.User
	err := s.db.WithContext(ctx).Select("id").Where("email = ?", in.Email).Take(&existing).Error
	if err == nil {
		return 0, ErrDuplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("lookup user by email: %w", err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		DateOfBirth:  in.DateOfBirth,
		Phone:        in.Phone,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return user.ID, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("id", "password_hash").Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("lookup user by email: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	return LoginResult{Token: token, UserID: user.ID, ExpiresAt: expiresAt}, nil
}
