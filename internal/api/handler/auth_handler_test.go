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

	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.Author, error)
	loginFn    func(ctx context.Context, in ports.LoginInput) (string, *domain.Author, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Author, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (string, *domain.Author, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Author, error) {
	return nil, domain.ErrInvalidCredential
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.Author, error) {
			if in.Email != "alice@example.com" || in.FirstName != "Alice" || in.Password != "secret1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Author{ID: "author-1", Email: in.Email}, nil
		},
	}
	body := `{"firstName":"Alice","lastName":"L","email":"alice@example.com","password":"secret1","role":"Admin"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/register", body), rec)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp idResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "author-1" {
		t.Fatalf("unexpected id %q", resp.ID)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{registerFn: func(context.Context, ports.RegisterInput) (*domain.Author, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}

	for _, body := range []string{
		`{"firstName":"A","lastName":"B","email":"not-an-email","password":"secret1"}`,
		`{"firstName":"A","lastName":"B","email":"a@b.com","password":"123"}`,
		`{"lastName":"B","email":"a@b.com","password":"secret1"}`,
		`{not json`,
	} {
		c := e.NewContext(jsonRequest(http.MethodPost, "/register", body), httptest.NewRecorder())
		if err := NewAuthHandler(stub).Register(c); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("body %s: expected ErrValidation, got %v", body, err)
		}
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{registerFn: func(context.Context, ports.RegisterInput) (*domain.Author, error) {
		return nil, domain.ErrAuthorExists
	}}
	body := `{"firstName":"A","lastName":"B","email":"a@b.com","password":"secret1"}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/register", body), httptest.NewRecorder())

	if err := NewAuthHandler(stub).Register(c); !errors.Is(err, domain.ErrAuthorExists) {
		t.Fatalf("expected ErrAuthorExists, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{loginFn: func(_ context.Context, in ports.LoginInput) (string, *domain.Author, error) {
		if in.Password != "correct" {
			return "", nil, domain.ErrInvalidCredential
		}
		return "signed-token", &domain.Author{ID: "author-1"}, nil
	}}
	h := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/login", `{"email":"a@b.com","password":"correct"}`), rec)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.AccessToken != "signed-token" {
		t.Fatalf("unexpected body %s (%v)", rec.Body.String(), err)
	}

	c = e.NewContext(jsonRequest(http.MethodPost, "/login", `{"email":"a@b.com","password":"wrong"}`), httptest.NewRecorder())
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestLoginResult(t *testing.T) {
	if got := loginResult(domain.ErrInvalidCredential); got != "invalid" {
		t.Errorf("got %q", got)
	}
	if got := loginResult(domain.ErrTooManyAttempts); got != "throttled" {
		t.Errorf("got %q", got)
	}
	if got := loginResult(errors.New("x")); got != "error" {
		t.Errorf("got %q", got)
	}
}
