package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/ports"
)

const identityKey = "identity"

// Auth validates the bearer access token and injects the caller identity
// into the request context.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.NewUnauthorized("Missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return domain.NewUnauthorized("Invalid authorization header")
			}

			payload, err := tokens.Verify(parts[1], ports.KeyAccess)
			if err != nil {
				return err
			}

			SetIdentity(c, domain.Identity{
				UserID:     payload.UserID,
				Role:       payload.Role,
				BusinessID: payload.BusinessID,
			})
			return next(c)
		}
	}
}

// SetIdentity stores the caller identity on the request context.
func SetIdentity(c echo.Context, identity domain.Identity) {
	c.Set(identityKey, identity)
}

// IdentityFrom extracts the authenticated identity set by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}
