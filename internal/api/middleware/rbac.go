package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/ports"
)

// RequireRole enforces role-based access control. For BUSINESS callers whose
// token predates their profile, the business id is resolved lazily with a
// single lookup and the enriched identity replaces the one in context.
func RequireRole(profiles ports.BusinessProfileRepository, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return domain.NewUnauthorized("Authentication required")
			}
			if _, ok := allowed[identity.Role]; !ok {
				return domain.NewForbidden("Insufficient role")
			}

			if identity.Role == domain.RoleBusiness && identity.BusinessID == "" {
				profile, err := profiles.FindByUserID(c.Request().Context(), identity.UserID)
				if err != nil {
					if isNotFound(err) {
						return domain.NewForbidden("Business profile missing")
					}
					return err
				}
				SetIdentity(c, identity.WithBusinessID(profile.ID))
			}

			return next(c)
		}
	}
}

func isNotFound(err error) bool {
	var derr *domain.Error
	return errors.As(err, &derr) && derr.Code == domain.CodeNotFound
}
