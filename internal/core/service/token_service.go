package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 14 * 24 * time.Hour
	defaultResetTTL   = 15 * time.Minute
)

// TokenService signs and verifies HS256 access/refresh pairs and manages
// single-use password-reset tokens.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	resetTTL      time.Duration
	users         ports.UserRepository
	resetStore    ports.ResetTokenStore
}

// TokenConfig carries the signing secrets and lifetimes. Zero durations fall
// back to the reference defaults (15m access, 14d refresh, 15m reset).
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	ResetTTL      time.Duration
}

func NewTokenService(cfg TokenConfig, users ports.UserRepository, resetStore ports.ResetTokenStore) *TokenService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = defaultResetTTL
	}
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		resetTTL:      cfg.ResetTTL,
		users:         users,
		resetStore:    resetStore,
	}
}

// IssuePair signs a fresh access+refresh pair carrying the same payload.
func (s *TokenService) IssuePair(payload ports.TokenPayload) (*ports.TokenPair, error) {
	access, err := s.sign(payload, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(payload, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) sign(payload ports.TokenPayload, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  payload.UserID,
		"role": string(payload.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	if payload.BusinessID != "" {
		claims["businessId"] = payload.BusinessID
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// Verify parses the token against the selected key class and validates the
// payload shape: subject and a known role must be present, businessId is
// optional. Any failure is UNAUTHORIZED.
func (s *TokenService) Verify(token string, class ports.KeyClass) (*ports.TokenPayload, error) {
	secret := s.accessSecret
	if class == ports.KeyRefresh {
		secret = s.refreshSecret
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.NewUnauthorized("Invalid token")
	}

	sub, _ := claims["sub"].(string)
	roleStr, _ := claims["role"].(string)
	role := domain.Role(roleStr)
	if sub == "" || !domain.ValidRole(role) {
		return nil, domain.NewUnauthorized("Invalid token payload")
	}

	payload := &ports.TokenPayload{UserID: sub, Role: role}
	if businessID, ok := claims["businessId"].(string); ok {
		payload.BusinessID = businessID
	}
	return payload, nil
}

// Refresh rotates a full pair from the refresh token's payload.
func (s *TokenService) Refresh(refreshToken string) (*ports.TokenPair, error) {
	payload, err := s.Verify(refreshToken, ports.KeyRefresh)
	if err != nil {
		return nil, err
	}
	return s.IssuePair(*payload)
}

// IssuePasswordResetToken stores a random single-use token for the account
// behind email. Unknown emails yield ("", nil) so responses stay identical
// either way.
func (s *TokenService) IssuePasswordResetToken(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) && derr.Code == domain.CodeNotFound {
			return "", nil
		}
		return "", err
	}

	token, err := randomToken()
	if err != nil {
		return "", err
	}
	if err := s.resetStore.Save(ctx, token, user.ID, s.resetTTL); err != nil {
		return "", err
	}
	return token, nil
}

// ConsumePasswordResetToken deletes the token and returns its userID.
func (s *TokenService) ConsumePasswordResetToken(ctx context.Context, token string) (string, error) {
	return s.resetStore.Consume(ctx, token)
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
