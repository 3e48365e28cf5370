package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming
	"time"

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/weftworks/garment-backoffice/internal/utils"
)

// principalKey is the context key the authenticated identity is stored under.
const principalKey = "principal"

// Principal is the authenticated identity attached to a request after the
// token passed both checks: a valid signature and presence in the ledger.
type Principal struct {
	UserID uint64
	Role   string
	Email  string
	Token  string // raw bearer string, needed by logout
}

// Liveness answers whether a raw token is still accepted. The signature
// proves integrity; the ledger decides liveness, which is what makes logout
// effective while a token's expiry claim is still in the future.
type Liveness interface {
	Live(ctx context.Context, token string) (bool, error)
}

// Authenticated returns middleware that validates a Bearer token and stores
// a Principal in the request context. Both checks must pass: HS256 signature
// and expiry first, then the ledger lookup. Any failure is a 401; the caller
// never learns which check failed.
func Authenticated(secret string, sessions Liveness) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "No token provided"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			live, err := sessions.Live(ctx, raw)
			if err != nil || !live {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid token"})
			}

			c.Set(principalKey, Principal{
				UserID: claims.UserID,
				Role:   claims.Role,
				Email:  claims.Email,
				Token:  raw,
			})
			return next(c)
		}
	}
}

// PrincipalFrom extracts the authenticated identity stored by Authenticated.
// The second return is false on unprotected routes.
func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}
