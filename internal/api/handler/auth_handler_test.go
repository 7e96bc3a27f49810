package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/ports"
)

type stubAuthService struct {
	pair       *ports.TokenPair
	resetToken string
	err        error

	lastRegister ports.RegisterInput
}

func (s *stubAuthService) Register(_ context.Context, input ports.RegisterInput) (*ports.TokenPair, error) {
	s.lastRegister = input
	return s.pair, s.err
}

func (s *stubAuthService) Login(context.Context, string, string) (*ports.TokenPair, error) {
	return s.pair, s.err
}

func (s *stubAuthService) Refresh(context.Context, string) (*ports.TokenPair, error) {
	return s.pair, s.err
}

func (s *stubAuthService) ForgotPassword(context.Context, string) (string, error) {
	return s.resetToken, s.err
}

func (s *stubAuthService) ResetPassword(context.Context, string, string) error {
	return s.err
}

var _ ports.AuthService = (*stubAuthService)(nil)

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{pair: &ports.TokenPair{AccessToken: "acc", RefreshToken: "ref"}}
	h := NewAuthHandler(svc, false)

	c, rec := newJSONContext(t, http.MethodPost, "/auth/register",
		`{"email":"a@example.com","password":"password123","role":"BUSINESS"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp tokenPairResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AccessToken != "acc" || resp.RefreshToken != "ref" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if svc.lastRegister.Role != domain.RoleBusiness {
		t.Fatalf("role not forwarded, got %q", svc.lastRegister.Role)
	}
}

func TestAuthHandler_RegisterDefaultsRoleToUser(t *testing.T) {
	svc := &stubAuthService{pair: &ports.TokenPair{}}
	h := NewAuthHandler(svc, false)

	c, _ := newJSONContext(t, http.MethodPost, "/auth/register",
		`{"email":"a@example.com","password":"password123"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if svc.lastRegister.Role != domain.RoleUser {
		t.Fatalf("expected USER default, got %q", svc.lastRegister.Role)
	}
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)

	tests := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"not-an-email","password":"password123"}`},
		{"short password", `{"email":"a@example.com","password":"short"}`},
		{"admin self-registration", `{"email":"a@example.com","password":"password123","role":"ADMIN"}`},
		{"missing body fields", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newJSONContext(t, http.MethodPost, "/auth/register", tt.body)
			err := h.Register(c)
			assertHandlerCode(t, err, domain.CodeValidation)
		})
	}
}

func TestAuthHandler_ForgotPasswordRevealsTokenInDevelopment(t *testing.T) {
	svc := &stubAuthService{resetToken: "tok-123"}

	for _, reveal := range []bool{true, false} {
		h := NewAuthHandler(svc, reveal)
		c, rec := newJSONContext(t, http.MethodPost, "/auth/forgot-password",
			`{"email":"a@example.com"}`)

		if err := h.ForgotPassword(c); err != nil {
			t.Fatalf("forgot: %v", err)
		}

		var resp forgotPasswordResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if reveal && resp.Token != "tok-123" {
			t.Fatalf("token not revealed in development")
		}
		if !reveal && resp.Token != "" {
			t.Fatalf("token leaked outside development")
		}
	}
}

func TestAuthHandler_ForgotPasswordSameShapeForUnknownEmail(t *testing.T) {
	// Empty token from the service (unknown account) yields the same message.
	h := NewAuthHandler(&stubAuthService{resetToken: ""}, true)
	c, rec := newJSONContext(t, http.MethodPost, "/auth/forgot-password",
		`{"email":"nobody@example.com"}`)

	if err := h.ForgotPassword(c); err != nil {
		t.Fatalf("forgot: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp forgotPasswordResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token != "" {
		t.Fatalf("unexpected token %q", resp.Token)
	}
}

func TestAuthHandler_ResetPasswordPropagatesUnauthorized(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: domain.NewUnauthorized("Invalid or expired token")}, false)
	c, _ := newJSONContext(t, http.MethodPost, "/auth/reset-password",
		`{"token":"stale","newPassword":"password123"}`)

	err := h.ResetPassword(c)
	assertHandlerCode(t, err, domain.CodeUnauthorized)
}

func assertHandlerCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var derr *domain.Error
	if !errors.As(err, &derr) {
		t.Fatalf("expected domain error, got %T: %v", err, err)
	}
	if derr.Code != code {
		t.Fatalf("expected %s, got %s (%s)", code, derr.Code, derr.Message)
	}
}
