package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/ports"
)

type authFixture struct {
	users    *stubUserRepo
	profiles *stubProfileRepo
	tokens   *TokenService
	svc      *AuthService
}

func newAuthFixture() *authFixture {
	users := newStubUserRepo()
	profiles := newStubProfileRepo()
	tokens := newTestTokenService(users, newMemResetStore())
	return &authFixture{
		users:    users,
		profiles: profiles,
		tokens:   tokens,
		svc:      NewAuthService(users, profiles, tokens, zerolog.Nop()),
	}
}

func TestAuthService_RegisterUser(t *testing.T) {
	f := newAuthFixture()

	pair, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email:    "a@example.com",
		Password: "password123",
		Role:     domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	payload, err := f.tokens.Verify(pair.AccessToken, ports.KeyAccess)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if payload.Role != domain.RoleUser {
		t.Fatalf("expected USER role, got %s", payload.Role)
	}
	if payload.BusinessID != "" {
		t.Fatalf("USER must not carry a businessId")
	}

	user, err := f.users.FindByEmail(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if user.PasswordHash == "password123" {
		t.Fatalf("password stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")) != nil {
		t.Fatalf("stored hash does not match password")
	}
}

func TestAuthService_RegisterBusinessCreatesProfile(t *testing.T) {
	f := newAuthFixture()

	pair, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email:    "shop@example.com",
		Password: "password123",
		Role:     domain.RoleBusiness,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	payload, err := f.tokens.Verify(pair.AccessToken, ports.KeyAccess)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if payload.BusinessID == "" {
		t.Fatalf("BUSINESS registration must embed businessId in the first pair")
	}

	profile, err := f.profiles.FindByUserID(context.Background(), payload.UserID)
	if err != nil {
		t.Fatalf("profile not created: %v", err)
	}
	if profile.Name != "shop@example.com" {
		t.Fatalf("profile should be named after the email, got %q", profile.Name)
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	input := ports.RegisterInput{Email: "a@example.com", Password: "password123", Role: domain.RoleUser}

	if _, err := f.svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := f.svc.Register(context.Background(), input)
	assertCode(t, err, domain.CodeConflict)
}

func TestAuthService_RegisterUnknownRole(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email:    "a@example.com",
		Password: "password123",
		Role:     "WIZARD",
	})
	assertCode(t, err, domain.CodeValidation)
}

func TestAuthService_LoginSuccess(t *testing.T) {
	f := newAuthFixture()
	if _, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email: "a@example.com", Password: "password123", Role: domain.RoleUser,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	pair, err := f.svc.Login(context.Background(), "a@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := f.tokens.Verify(pair.AccessToken, ports.KeyAccess); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestAuthService_LoginEmbedsBusinessID(t *testing.T) {
	f := newAuthFixture()
	if _, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email: "shop@example.com", Password: "password123", Role: domain.RoleBusiness,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	pair, err := f.svc.Login(context.Background(), "shop@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	payload, err := f.tokens.Verify(pair.AccessToken, ports.KeyAccess)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if payload.BusinessID == "" {
		t.Fatalf("expected businessId in token")
	}
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	f := newAuthFixture()
	if _, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email: "a@example.com", Password: "password123", Role: domain.RoleUser,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := f.svc.Login(context.Background(), "a@example.com", "wrong-password")
	assertCode(t, err, domain.CodeUnauthorized)
}

func TestAuthService_LoginUnknownEmailIsIndistinguishable(t *testing.T) {
	f := newAuthFixture()

	// Unknown accounts fail with the same code and message as bad passwords.
	_, err := f.svc.Login(context.Background(), "nobody@example.com", "password123")
	assertCode(t, err, domain.CodeUnauthorized)

	var derr *domain.Error
	if !asDomainError(err, &derr) || derr.Message != "Invalid credentials" {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	f := newAuthFixture()
	if _, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email: "a@example.com", Password: "old-password", Role: domain.RoleUser,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := f.svc.ForgotPassword(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("forgot: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a reset token")
	}

	if err := f.svc.ResetPassword(context.Background(), token, "new-password"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	// Old credentials no longer work; new ones do.
	if _, err := f.svc.Login(context.Background(), "a@example.com", "old-password"); err == nil {
		t.Fatalf("old password still valid after reset")
	}
	if _, err := f.svc.Login(context.Background(), "a@example.com", "new-password"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}

	// The token was single-use.
	err = f.svc.ResetPassword(context.Background(), token, "another-password")
	assertCode(t, err, domain.CodeUnauthorized)
}

func TestAuthService_ForgotPasswordSilentForUnknownEmail(t *testing.T) {
	f := newAuthFixture()

	token, err := f.svc.ForgotPassword(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
}

func asDomainError(err error, target **domain.Error) bool {
	derr, ok := err.(*domain.Error)
	if ok {
		*target = derr
	}
	return ok
}
