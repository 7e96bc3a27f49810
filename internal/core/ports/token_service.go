package ports

import (
	"context"
	"time"

	"github.com/savemate/deals-api/internal/core/domain"
)

// KeyClass selects which signing secret a token must verify against.
// Access and refresh tokens are signed with distinct secrets so possession
// of one cannot forge the other.
type KeyClass int

const (
	KeyAccess KeyClass = iota
	KeyRefresh
)

// TokenPayload is the claim set embedded in both token classes.
// BusinessID is present only for BUSINESS users with a profile at sign time.
type TokenPayload struct {
	UserID     string
	Role       domain.Role
	BusinessID string
}

// TokenPair is a freshly signed access+refresh pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService issues and verifies credentials.
type TokenService interface {
	IssuePair(payload TokenPayload) (*TokenPair, error)
	// Verify fails with an UNAUTHORIZED domain error when the signature is
	// invalid, the token is expired, or the payload shape is malformed.
	Verify(token string, class KeyClass) (*TokenPayload, error)
	// Refresh verifies the refresh token and issues a new pair from the same
	// payload. The prior refresh token is not invalidated; replay is bounded
	// by its own expiry (known hardening opportunity).
	Refresh(refreshToken string) (*TokenPair, error)
	// IssuePasswordResetToken returns a single-use reset token for the given
	// email, or empty string without error when no such account exists (no
	// account enumeration).
	IssuePasswordResetToken(ctx context.Context, email string) (string, error)
	// ConsumePasswordResetToken deletes the token and returns the userID it
	// was issued for. Absent or expired tokens fail UNAUTHORIZED.
	ConsumePasswordResetToken(ctx context.Context, token string) (string, error)
}

// ResetTokenStore holds single-use password-reset tokens with a TTL.
// Implementations may be process-local or distributed.
type ResetTokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	// Consume atomically deletes the token and returns the associated userID.
	// Absent or expired tokens fail with an UNAUTHORIZED domain error.
	Consume(ctx context.Context, token string) (string, error)
}
