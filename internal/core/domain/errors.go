package domain

import (
	"errors"
	"fmt"
)

// Authentication and authorization failures. Middleware returns these
// without reaching the handler.
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrIdentityGone      = errors.New("identity no longer exists")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("access forbidden")
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrUpstream        = errors.New("upstream failure")
	ErrConflict        = errors.New("concurrent modification")
	ErrTooManyAttempts = errors.New("too many failed login attempts")
)

var (
	ErrAuthorNotFound   = fmt.Errorf("author %w", ErrNotFound)
	ErrBlogPostNotFound = fmt.Errorf("blog post %w", ErrNotFound)
	ErrCommentNotFound  = fmt.Errorf("comment %w", ErrNotFound)
	ErrAuthorExists     = errors.New("author already exists")
	// ErrLinkRequired is returned when a Google identity matches a local
	// account by email only. The owner has to link it from a signed-in session.
	ErrLinkRequired = errors.New("account exists, sign in and link google")
	// ErrLinkNeedsPassword is the ErrLinkRequired case where the matched
	// account has no password to sign in with. An administrator has to set
	// one before the owner can link.
	ErrLinkNeedsPassword = fmt.Errorf("%w: account has no password, ask an administrator to set one", ErrLinkRequired)
)

// ValidationError wraps ErrValidation with a human-readable reason.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ErrOAuthState is returned when an OAuth callback carries an unknown,
// expired or already consumed state value.
var ErrOAuthState = errors.New("oauth state invalid or expired")
