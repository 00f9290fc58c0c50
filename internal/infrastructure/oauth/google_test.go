package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/strivezine/blog-system/internal/core/domain"
)

func TestGoogleProvider_AuthCodeURL(t *testing.T) {
	p := NewGoogleProvider(GoogleConfig{
		ClientID:    "client-id",
		RedirectURL: "http://localhost:8080/login/google/callback",
	})

	u, err := url.Parse(p.AuthCodeURL("state-123"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	want := map[string]string{
		"client_id":     "client-id",
		"redirect_uri":  "http://localhost:8080/login/google/callback",
		"response_type": "code",
		"scope":         "openid email profile",
		"state":         "state-123",
	}
	for k, v := range want {
		if got := q.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	if u.Host != "accounts.google.com" {
		t.Errorf("unexpected host %q", u.Host)
	}
}

// fakeGoogle serves the token and userinfo endpoints.
func fakeGoogle(t *testing.T, userInfo map[string]any, userInfoStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-1",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer access-1" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(userInfoStatus)
		_ = json.NewEncoder(w).Encode(userInfo)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(srv *httptest.Server) *GoogleProvider {
	return NewGoogleProvider(GoogleConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost/cb",
		AuthURL:      srv.URL + "/auth",
		TokenURL:     srv.URL + "/token",
		UserInfoURL:  srv.URL + "/userinfo",
	})
}

func TestGoogleProvider_Exchange(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{
		"sub":            "google-1",
		"email":          "new@example.com",
		"email_verified": true,
		"given_name":     "New",
		"family_name":    "Person",
	}, http.StatusOK)

	profile, err := newTestProvider(srv).Exchange(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if profile.Subject != "google-1" || profile.Email != "new@example.com" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if profile.GivenName != "New" || profile.FamilyName != "Person" {
		t.Fatalf("unexpected names: %+v", profile)
	}
}

func TestGoogleProvider_ExchangeFailures(t *testing.T) {
	verified := map[string]any{"sub": "google-1", "email": "a@b.com", "email_verified": true}

	cases := []struct {
		name     string
		code     string
		userInfo map[string]any
		status   int
	}{
		{"bad code", "bad-code", verified, http.StatusOK},
		{"userinfo error", "good-code", verified, http.StatusInternalServerError},
		{"missing sub", "good-code", map[string]any{"email": "a@b.com", "email_verified": true}, http.StatusOK},
		{"unverified email", "good-code", map[string]any{"sub": "google-1", "email": "a@b.com"}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := fakeGoogle(t, tc.userInfo, tc.status)
			_, err := newTestProvider(srv).Exchange(context.Background(), tc.code)
			if !errors.Is(err, domain.ErrUpstream) {
				t.Fatalf("expected ErrUpstream, got %v", err)
			}
		})
	}
}
