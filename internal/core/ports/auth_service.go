package ports

import (
	"context"

	"github.com/savemate/deals-api/internal/core/domain"
)

// RegisterInput carries the registration payload. Role defaults to USER at
// the transport layer and is assigned exactly once.
type RegisterInput struct {
	Email    string
	Password string
	Role     domain.Role
}

// AuthService implements credential issuance flows.
type AuthService interface {
	// Register creates the account (and, for BUSINESS, its profile) and
	// returns the first token pair.
	Register(ctx context.Context, input RegisterInput) (*TokenPair, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	// ForgotPassword returns the reset token for the given email, or empty
	// string when the account does not exist (no error, to prevent account
	// enumeration). The caller decides whether to reveal the token.
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}
