package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
)

type stubAuthService struct {
	authenticateFn func(ctx context.Context, token string) (*domain.Author, error)
}

func (s *stubAuthService) Register(context.Context, ports.RegisterInput) (*domain.Author, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) Login(context.Context, ports.LoginInput) (string, *domain.Author, error) {
	return "", nil, errors.New("not implemented")
}

func (s *stubAuthService) Authenticate(ctx context.Context, token string) (*domain.Author, error) {
	return s.authenticateFn(ctx, token)
}

func runAuth(t *testing.T, header string, svc ports.AuthService) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := Auth(svc)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return c, called, err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	svc := &stubAuthService{authenticateFn: func(_ context.Context, token string) (*domain.Author, error) {
		if token != "good-token" {
			t.Fatalf("unexpected token %q", token)
		}
		return &domain.Author{ID: "author-1", Role: domain.RoleAuthor}, nil
	}}

	c, called, err := runAuth(t, "Bearer good-token", svc)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("next not called")
	}
	author, ok := AuthorFromContext(c)
	if !ok || author.ID != "author-1" {
		t.Fatalf("author not set in context: %+v", author)
	}
}

func TestAuthMiddleware_MissingCredential(t *testing.T) {
	svc := &stubAuthService{authenticateFn: func(context.Context, string) (*domain.Author, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}

	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer   ", "token-only"} {
		_, called, err := runAuth(t, header, svc)
		if !errors.Is(err, domain.ErrMissingCredential) {
			t.Errorf("header %q: expected ErrMissingCredential, got %v", header, err)
		}
		if called {
			t.Errorf("header %q: next must not be called", header)
		}
	}
}

func TestAuthMiddleware_PropagatesServiceErrors(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredential, domain.ErrIdentityGone} {
		svc := &stubAuthService{authenticateFn: func(context.Context, string) (*domain.Author, error) {
			return nil, want
		}}
		_, called, err := runAuth(t, "bearer some-token", svc)
		if !errors.Is(err, want) {
			t.Errorf("expected %v, got %v", want, err)
		}
		if called {
			t.Error("next must not be called")
		}
	}
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("  BEARER abc.def.ghi ")
	if err != nil || token != "abc.def.ghi" {
		t.Fatalf("got %q, %v", token, err)
	}
}

func TestRejectionReason(t *testing.T) {
	cases := map[error]string{
		domain.ErrInvalidCredential: "invalid",
		domain.ErrIdentityGone:      "identity_gone",
		domain.ErrMissingCredential: "missing",
		errors.New("boom"):          "error",
	}
	for err, want := range cases {
		if got := rejectionReason(err); got != want {
			t.Errorf("rejectionReason(%v) = %q, want %q", err, got, want)
		}
	}
}
