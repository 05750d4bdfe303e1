package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akvaproffi/storefront/api/middleware"
	"github.com/akvaproffi/storefront/internal/auth"
	"github.com/akvaproffi/storefront/internal/users"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/google/uuid"
)

type stubAuthService struct {
	loginErr error
	revoked  string
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &auth.LoginResponse{AccessToken: "token-123", ExpiresIn: 1800, User: &users.UserDTO{Email: req.Email}}, nil
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.revoked = accessID
	return nil
}

type stubRegisterService struct {
	err error
}

func (s stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &users.UserDTO{ID: uuid.New(), Email: req.Email, Name: req.Name}, nil
}

func authCookie(resp *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range resp.Result().Cookies() {
		if c.Name == middleware.AuthCookieName {
			return c
		}
	}
	return nil
}

func TestAuthLoginSetsCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@b.co","password":"secret1"}`))
	resp := httptest.NewRecorder()
	AuthLogin(&stubAuthService{}, false, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	cookie := authCookie(resp)
	if cookie == nil || cookie.Value != "token-123" || !cookie.HttpOnly || cookie.MaxAge != 1800 {
		t.Fatalf("unexpected cookie %+v", cookie)
	}
	if got := decodeData[auth.LoginResponse](t, resp); got.AccessToken != "token-123" {
		t.Fatalf("unexpected body %+v", got)
	}
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@b.co","password":"nope"}`))
	resp := httptest.NewRecorder()
	AuthLogin(svc, false, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if authCookie(resp) != nil {
		t.Fatal("expected no cookie on failure")
	}
}

func TestAuthRegisterSignsIn(t *testing.T) {
	body := `{"name":"Ann","email":"a@b.co","password":"secret1"}`
	resp := httptest.NewRecorder()
	AuthRegister(stubRegisterService{}, &stubAuthService{}, true, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body)))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if cookie := authCookie(resp); cookie == nil || !cookie.Secure {
		t.Fatalf("expected secure auth cookie, got %+v", cookie)
	}
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	reg := stubRegisterService{err: pkgerrors.New(pkgerrors.CodeConflict, "a user with this email already exists")}
	body := `{"name":"Ann","email":"a@b.co","password":"secret1"}`
	resp := httptest.NewRecorder()
	AuthRegister(reg, &stubAuthService{}, false, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body)))
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestAuthLogoutRevokesSession(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "access-1"))
	resp := httptest.NewRecorder()
	AuthLogout(svc, false, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || svc.revoked != "access-1" {
		t.Fatalf("expected revoke of access-1, code=%d revoked=%q", resp.Code, svc.revoked)
	}
	if cookie := authCookie(resp); cookie == nil || cookie.MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", cookie)
	}
}

func TestAuthLogoutWithoutSession(t *testing.T) {
	resp := httptest.NewRecorder()
	AuthLogout(&stubAuthService{}, false, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
