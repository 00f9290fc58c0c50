package ports

import (
	"context"
	"time"

	"github.com/strivezine/blog-system/internal/core/domain"
)

// PasswordHasher hashes and verifies local passwords.
// Verify returns false for any mismatch, including a malformed hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenClaims is the verified content of a session token.
type TokenClaims struct {
	Subject   string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs session tokens for an author.
type TokenIssuer interface {
	Issue(authorID string, role domain.Role) (string, error)
}

// TokenVerifier checks signature and expiry. Every failure is reported as
// domain.ErrInvalidCredential.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// LoginLimiter throttles repeated failed password logins. Failures are
// counted per email and client pair and per client address; ip may be empty.
type LoginLimiter interface {
	// Check returns domain.ErrTooManyAttempts once either budget is spent.
	Check(ctx context.Context, email, ip string) error
	RecordFailure(ctx context.Context, email, ip string) error
	// Reset clears the email and client pair after a successful login.
	Reset(ctx context.Context, email, ip string) error
}

// RegisterInput carries the fields accepted on self registration.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Avatar    string
}

// LoginInput carries password credentials and the caller address.
type LoginInput struct {
	Email    string
	Password string
	IP       string
}

// AuthService covers local registration, password login and token resolution.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Author, error)
	Login(ctx context.Context, in LoginInput) (string, *domain.Author, error)
	// Authenticate verifies a bearer token and resolves its subject.
	Authenticate(ctx context.Context, token string) (*domain.Author, error)
}
