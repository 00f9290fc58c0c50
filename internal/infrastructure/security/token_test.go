package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/strivezine/blog-system/internal/core/domain"
)

const b64url = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

func newTestManager(t *testing.T, now time.Time) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(TokenConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "blog-api"})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	m.now = func() time.Time { return now }
	return m
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	m := newTestManager(t, now)

	tok, err := m.Issue("author-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "author-1" {
		t.Errorf("subject = %q", claims.Subject)
	}
	if claims.Role != domain.RoleAdmin {
		t.Errorf("role = %q", claims.Role)
	}
	if !claims.IssuedAt.Equal(now) {
		t.Errorf("iat = %v, want %v", claims.IssuedAt, now)
	}
	if !claims.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("exp = %v, want %v", claims.ExpiresAt, now.Add(time.Hour))
	}
}

func TestTokenManager_Expiry(t *testing.T) {
	issuedAt := time.Unix(1_700_000_000, 0)
	m := newTestManager(t, issuedAt)

	tok, err := m.Issue("author-1", domain.RoleAuthor)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	m.now = func() time.Time { return issuedAt.Add(time.Hour - time.Second) }
	if _, err := m.Verify(tok); err != nil {
		t.Fatalf("expected token valid before expiry, got %v", err)
	}

	m.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }
	if _, err := m.Verify(tok); !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential after expiry, got %v", err)
	}
}

func TestTokenManager_TamperedByteRejected(t *testing.T) {
	m := newTestManager(t, time.Unix(1_700_000_000, 0))
	tok, err := m.Issue("author-1", domain.RoleAuthor)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for i := 0; i < len(tok); i++ {
		b := []byte(tok)
		if b[i] == '.' {
			b[i] = 'x'
		} else {
			// Flip the high bit of the 6-bit value so the decoded bytes change
			// even in a segment's final character.
			b[i] = b64url[strings.IndexByte(b64url, b[i])^32]
		}
		if _, err := m.Verify(string(b)); !errors.Is(err, domain.ErrInvalidCredential) {
			t.Fatalf("tampered byte %d accepted (err=%v)", i, err)
		}
	}
}

func TestTokenManager_RejectsForeignTokens(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	m := newTestManager(t, now)

	otherSecret, _ := NewTokenManager(TokenConfig{Secret: "other", Issuer: "blog-api"})
	otherSecret.now = m.now
	foreign, _ := otherSecret.Issue("author-1", domain.RoleAdmin)

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "author-1",
		"iss": "blog-api",
		"exp": now.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "author-1",
		"iss": "blog-api",
	}).SignedString([]byte("test-secret"))

	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "blog-api",
		"exp": now.Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))

	wrongIssuer, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "author-1",
		"iss": "someone-else",
		"exp": now.Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))

	cases := map[string]string{
		"other secret": foreign,
		"alg none":     none,
		"no exp":       noExp,
		"no subject":   noSub,
		"wrong issuer": wrongIssuer,
		"garbage":      "not-a-token",
		"empty":        "",
	}
	for name, tok := range cases {
		if _, err := m.Verify(tok); !errors.Is(err, domain.ErrInvalidCredential) {
			t.Errorf("%s: expected ErrInvalidCredential, got %v", name, err)
		}
	}
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	if _, err := NewTokenManager(TokenConfig{}); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestTokenManager_IssueRequiresSubject(t *testing.T) {
	m := newTestManager(t, time.Now())
	if _, err := m.Issue("", domain.RoleAuthor); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}
