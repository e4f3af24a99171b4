package services

import (
	"context"

	"github.com/questly/backend/internal/models"
	"github.com/questly/backend/pkg/apperr"
	"github.com/questly/backend/pkg/logger"
	"github.com/questly/backend/pkg/utils"
	"gorm.io/gorm"
)

type AuthService struct {
	DB *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db}
}

type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	IsQuester   bool
	IsRequester bool
}

// Register creates the user and returns a token for the new account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (string, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return "", apperr.Internal("Failed checking existing user")
	}
	if count > 0 {
		return "", apperr.BadRequest("Email is already taken", nil)
	}

	passwordHash, err := utils.HashPassword(input.Password)
	if err != nil {
		return "", apperr.Internal("Failed hashing password")
	}

	user := models.User{
		Email:        input.Email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		FullName:     input.FirstName + " " + input.LastName,
		IsQuester:    input.IsQuester,
		IsRequester:  input.IsRequester,
	}

	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return "", apperr.Internal("Failed creating user")
	}

	logger.Info("user_registered", map[string]interface{}{
		"user_id":      user.ID.String(),
		"email":        user.Email,
		"is_quester":   user.IsQuester,
		"is_requester": user.IsRequester,
	})

	token, err := utils.GenerateToken(user.Email)
	if err != nil {
		return "", apperr.Internal("Failed generating token")
	}

	return token, nil
}

// Login verifies credentials and issues a token. Unknown email and
// wrong password produce the same message so accounts cannot be
// enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		logger.Warn("login_failed_user_not_found", map[string]interface{}{
			"email": email,
		})
		return "", apperr.Unauthorized("Invalid credentials")
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		logger.WarnWithUser(user.Email, "login_failed_invalid_password", nil)
		return "", apperr.Unauthorized("Invalid credentials")
	}

	logger.InfoWithUser(user.Email, "user_login", nil)

	token, err := utils.GenerateToken(user.Email)
	if err != nil {
		return "", apperr.Internal("Failed generating token")
	}

	return token, nil
}
