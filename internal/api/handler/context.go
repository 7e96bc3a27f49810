package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/savemate/deals-api/internal/api/middleware"
	"github.com/savemate/deals-api/internal/core/domain"
)

// currentIdentity extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call. Presence proves the
// middleware ran; a BUSINESS identity without a business id means the RBAC
// middleware was skipped on a route that needs it.
func currentIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.NewUnauthorized("Authentication required")
	}
	return identity, nil
}

// currentBusinessID returns the caller's business id, failing when the
// caller is not an attached BUSINESS user.
func currentBusinessID(c echo.Context) (string, error) {
	identity, err := currentIdentity(c)
	if err != nil {
		return "", err
	}
	if identity.Role != domain.RoleBusiness || identity.BusinessID == "" {
		return "", domain.NewForbidden("Business account required")
	}
	return identity.BusinessID, nil
}
