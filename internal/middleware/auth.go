package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/questly/backend/internal/models"
	"github.com/questly/backend/internal/services"
	"github.com/questly/backend/pkg/apperr"
	"github.com/questly/backend/pkg/logger"
	"github.com/questly/backend/pkg/utils"
)

const identityKey = "identity"

type AuthMiddleware struct {
	Access *services.AccessService
	// Public holds route prefixes the filter does not guard.
	Public []string
}

func NewAuthMiddleware(access *services.AccessService, publicPrefixes []string) *AuthMiddleware {
	return &AuthMiddleware{Access: access, Public: publicPrefixes}
}

func CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "http://localhost:3001,http://127.0.0.1:3001",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	})
}

// RequireAuth validates the bearer token and attaches the authenticated
// identity. A missing or malformed Authorization header fails with 400
// before any handler logic, matching the API contract.
func (a *AuthMiddleware) RequireAuth(c *fiber.Ctx) error {
	if a.isPublicPath(c.Path()) {
		return c.Next()
	}

	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	email, err := utils.ValidateToken(token)
	if err != nil {
		logger.Warn("jwt_validation_failed", map[string]interface{}{
			"ip":    c.IP(),
			"path":  c.Path(),
			"error": err.Error(),
		})
		if errors.Is(err, utils.ErrTokenExpired) {
			return apperr.Unauthorized("Token is expired")
		}
		return apperr.Unauthorized("Invalid token")
	}

	identity, err := a.Access.LoadIdentity(c.Context(), email)
	if err != nil {
		return err
	}

	c.Locals(identityKey, identity)
	c.Locals("userEmail", identity.Email)
	return c.Next()
}

// RequireRole guards a route group behind one role tag. It assumes
// RequireAuth already ran.
func RequireRole(role models.RoleTag) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := GetIdentity(c)
		if identity == nil {
			return apperr.Unauthorized("Authentication required")
		}
		if !services.Check(role, identity.Roles) {
			logger.WarnWithUser(identity.Email, "permission_denied", map[string]interface{}{
				"path":          c.Path(),
				"required_role": string(role),
			})
			return apperr.Forbidden("Access denied")
		}
		return c.Next()
	}
}

func GetIdentity(c *fiber.Ctx) *services.Identity {
	value := c.Locals(identityKey)
	if value == nil {
		return nil
	}
	identity, ok := value.(*services.Identity)
	if !ok {
		return nil
	}
	return identity
}

func (a *AuthMiddleware) isPublicPath(path string) bool {
	for _, prefix := range a.Public {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", apperr.BadRequest("Authorization header is required", nil)
	}

	const tokenType = "Bearer "
	if !strings.HasPrefix(authHeader, tokenType) {
		return "", apperr.BadRequest("Request must include a Bearer token.", nil)
	}

	return authHeader[len(tokenType):], nil
}
