package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/strivezine/blog-system/internal/api/middleware"
	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
)

type stubOAuthService struct {
	linkAuthor string
	result     *ports.OAuthResult
	err        error
}

func (s *stubOAuthService) BeginLogin(context.Context) (string, error) {
	return "https://accounts.google.com/o/oauth2/auth?state=s1", nil
}

func (s *stubOAuthService) BeginLink(_ context.Context, authorID string) (string, error) {
	s.linkAuthor = authorID
	return "https://accounts.google.com/o/oauth2/auth?state=s2", nil
}

func (s *stubOAuthService) Complete(context.Context, string, string) (*ports.OAuthResult, error) {
	return s.result, s.err
}

func runCallback(t *testing.T, svc ports.OAuthService, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, target, nil), rec)
	h := NewOAuthHandler(svc, "http://localhost:3000/", zerolog.Nop())
	if err := h.Callback(c); err != nil {
		t.Fatalf("callback: %v", err)
	}
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", rec.Code)
	}
	return rec
}

func TestOAuthHandler_Login_Redirects(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/login/google", nil), rec)

	if err := NewOAuthHandler(&stubOAuthService{}, "http://localhost:3000", zerolog.Nop()).Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "https://accounts.google.com/o/oauth2/auth?state=s1" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestOAuthHandler_Link_UsesCurrentAuthor(t *testing.T) {
	svc := &stubOAuthService{}
	h := NewOAuthHandler(svc, "http://localhost:3000", zerolog.Nop())

	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/login/google/link", nil), httptest.NewRecorder())
	if err := h.Link(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized without author, got %v", err)
	}

	c = echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/login/google/link", nil), httptest.NewRecorder())
	middleware.SetAuthor(c, &domain.Author{ID: "author-7"})
	if err := h.Link(c); err != nil {
		t.Fatalf("link: %v", err)
	}
	if svc.linkAuthor != "author-7" {
		t.Fatalf("link started for %q", svc.linkAuthor)
	}
}

func TestOAuthHandler_Callback_Success(t *testing.T) {
	cases := []struct {
		role domain.Role
		want string
	}{
		{domain.RoleAuthor, "http://localhost:3000/profile?accessToken=tok"},
		{domain.RoleAdmin, "http://localhost:3000/admin?accessToken=tok"},
	}
	for _, tc := range cases {
		svc := &stubOAuthService{result: &ports.OAuthResult{Token: "tok", Author: &domain.Author{ID: "a", Role: tc.role}}}
		rec := runCallback(t, svc, "/login/google/callback?state=s&code=c")
		if loc := rec.Header().Get(echo.HeaderLocation); loc != tc.want {
			t.Errorf("role %s: location %q, want %q", tc.role, loc, tc.want)
		}
	}
}

func TestOAuthHandler_Callback_Failures(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{domain.ErrOAuthState, "http://localhost:3000/login?error=oauth_state"},
		{domain.ErrLinkRequired, "http://localhost:3000/login?error=oauth_link_required"},
		{domain.ErrLinkNeedsPassword, "http://localhost:3000/login?error=oauth_password_required"},
		{domain.ErrUpstream, "http://localhost:3000/login?error=oauth_failed"},
	}
	for _, tc := range cases {
		rec := runCallback(t, &stubOAuthService{err: tc.err}, "/login/google/callback?state=s&code=c")
		if loc := rec.Header().Get(echo.HeaderLocation); loc != tc.want {
			t.Errorf("%v: location %q, want %q", tc.err, loc, tc.want)
		}
	}
}

func TestOAuthHandler_Callback_ConsentDeclined(t *testing.T) {
	rec := runCallback(t, &stubOAuthService{}, "/login/google/callback?error=access_denied")
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "http://localhost:3000/login?error=oauth_failed" {
		t.Fatalf("unexpected location %q", loc)
	}
}
