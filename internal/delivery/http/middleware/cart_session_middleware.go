package middleware

import (
	"net/http"
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKeyCartOwner is the echo.Context key under which the resolved cart
// owner is stored.
const ContextKeyCartOwner = "cartOwner"

// CartSessionCookie is the cookie carrying the anonymous cart session token.
const CartSessionCookie = "cart_session"

const cartSessionTTL = 30 * 24 * time.Hour

// CartSessionMiddleware resolves the cart owner for the request: the
// authenticated user when a principal is present, otherwise an anonymous
// session identified by a cookie. First-time anonymous visitors get a fresh
// session token issued on the response.
type CartSessionMiddleware struct{}

// NewCartSessionMiddleware is the constructor for CartSessionMiddleware.
func NewCartSessionMiddleware() *CartSessionMiddleware {
	return &CartSessionMiddleware{}
}

// Resolve attaches the cart owner to the request context. It must run AFTER
// any authentication middleware on the same route.
func (m *CartSessionMiddleware) Resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if principal, ok := c.Get(ContextKeyPrincipal).(entity.Principal); ok {
			c.Set(ContextKeyCartOwner, entity.OwnerForUser(principal.UserID))

			return next(c)
		}

		cookie, err := c.Cookie(CartSessionCookie)
		if err == nil && cookie.Value != "" {
			c.Set(ContextKeyCartOwner, entity.OwnerForSession(cookie.Value))

			return next(c)
		}

		token := uuid.New().String()
		c.SetCookie(&http.Cookie{
			Name:     CartSessionCookie,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().Add(cartSessionTTL),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		c.Set(ContextKeyCartOwner, entity.OwnerForSession(token))

		return next(c)
	}
}

// OptionalAuthenticate validates a bearer token when one is present but lets
// anonymous requests through. Cart routes use it so guests and customers
// share the same endpoints.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") == "" {
			return next(c)
		}

		return m.Authenticate(next)(c)
	}
}
