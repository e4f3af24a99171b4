package services

import (
	"context"

	"github.com/questly/backend/internal/models"
	"github.com/questly/backend/pkg/apperr"
	"gorm.io/gorm"
)

// Identity is the authenticated principal built once per request by the
// auth middleware.
type Identity struct {
	Email string
	Roles []models.RoleTag
	User  *models.User
}

type AccessService struct {
	DB *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{DB: db}
}

// DeriveRoles maps the user's flags to role tags. There is no caching;
// flags are re-read from the row fetched for the current request.
func DeriveRoles(user *models.User) []models.RoleTag {
	var roles []models.RoleTag
	if user.IsQuester {
		roles = append(roles, models.RoleQuester)
	}
	if user.IsRequester {
		roles = append(roles, models.RoleRequester)
	}
	return roles
}

func Check(required models.RoleTag, granted []models.RoleTag) bool {
	for _, role := range granted {
		if role == required {
			return true
		}
	}
	return false
}

// LoadIdentity resolves a token subject to the authenticated identity.
func (a *AccessService) LoadIdentity(ctx context.Context, email string) (*Identity, error) {
	var user models.User
	if err := a.DB.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("Failed loading user")
	}

	return &Identity{
		Email: user.Email,
		Roles: DeriveRoles(&user),
		User:  &user,
	}, nil
}
