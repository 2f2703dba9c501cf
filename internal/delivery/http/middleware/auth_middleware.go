package middleware

import (
	"strings"

	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// ContextKeyPrincipal is the echo.Context key under which the authenticated
// principal is stored.
const ContextKeyPrincipal = "principal"

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate is the core middleware function that validates the JWT access token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_TOKEN", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}

		// Set the caller's identity on the context for handlers to use
		c.Set(ContextKeyPrincipal, entity.Principal{
			UserID: claims.UserID,
			Role:   claims.Role,
		})

		return next(c)
	}
}

// RequireManager is a middleware that rejects callers without a back-office
// role. It must be used AFTER the Authenticate middleware; fine-grained
// capability checks still live in the use cases.
func (m *AuthMiddleware) RequireManager(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, ok := c.Get(ContextKeyPrincipal).(entity.Principal)
		if !ok {
			return response.Forbidden(c, "FORBIDDEN", "Permission denied: principal information missing")
		}

		if !principal.Role.IsManager() {
			return response.Forbidden(c, "FORBIDDEN", "Permission denied: manager role required")
		}

		return next(c)
	}
}
