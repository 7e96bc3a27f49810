package ports

import (
	"context"

	"github.com/savemate/deals-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpdatePasswordHash replaces the stored hash; used by the reset flow only.
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
}

// BusinessProfileRepository defines persistence for business profiles.
type BusinessProfileRepository interface {
	Create(ctx context.Context, profile *domain.BusinessProfile) (*domain.BusinessProfile, error)
	FindByUserID(ctx context.Context, userID string) (*domain.BusinessProfile, error)
}
