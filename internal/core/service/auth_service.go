package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/savemate/deals-api/internal/api/metrics"
	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/ports"
)

// AuthService implements registration, login, refresh, and the password
// reset flow on top of the token service.
type AuthService struct {
	users    ports.UserRepository
	profiles ports.BusinessProfileRepository
	tokens   ports.TokenService
	logger   zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	profiles ports.BusinessProfileRepository,
	tokens ports.TokenService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{users: users, profiles: profiles, tokens: tokens, logger: logger}
}

// Register creates the account and, for BUSINESS users, the linked profile
// before the first pair is signed so businessId rides in the tokens from the
// start. The profile is named after the email until the owner renames it.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.TokenPair, error) {
	if !domain.ValidRole(input.Role) {
		return nil, domain.FieldValidationError("role", "role must be one of ADMIN, USER, BUSINESS")
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.NewConflict("Email already registered", nil)
	} else if !isNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
	})
	if err != nil {
		return nil, err
	}

	payload := ports.TokenPayload{UserID: user.ID, Role: user.Role}
	if user.Role == domain.RoleBusiness {
		profile, err := s.profiles.Create(ctx, &domain.BusinessProfile{
			UserID: user.ID,
			Name:   user.Email,
		})
		if err != nil {
			return nil, err
		}
		payload.BusinessID = profile.ID
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return s.tokens.IssuePair(payload)
}

// Login verifies credentials and signs a pair. BUSINESS callers get their
// businessId embedded when a profile already exists; otherwise the guard
// resolves it lazily per request.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.NewUnauthorized("Invalid credentials")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.NewUnauthorized("Invalid credentials")
	}

	payload := ports.TokenPayload{UserID: user.ID, Role: user.Role}
	if user.Role == domain.RoleBusiness {
		profile, err := s.profiles.FindByUserID(ctx, user.ID)
		if err == nil {
			payload.BusinessID = profile.ID
		} else if !isNotFound(err) {
			return nil, err
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return s.tokens.IssuePair(payload)
}

// Refresh rotates the pair; verification failures surface as UNAUTHORIZED.
func (s *AuthService) Refresh(_ context.Context, refreshToken string) (*ports.TokenPair, error) {
	return s.tokens.Refresh(refreshToken)
}

// ForgotPassword issues a reset token, or empty string for unknown accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	return s.tokens.IssuePasswordResetToken(ctx, email)
}

// ResetPassword consumes the single-use token and replaces the stored hash.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokens.ConsumePasswordResetToken(ctx, token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Msg("password reset")
	return nil
}

func isNotFound(err error) bool {
	var derr *domain.Error
	return errors.As(err, &derr) && derr.Code == domain.CodeNotFound
}
