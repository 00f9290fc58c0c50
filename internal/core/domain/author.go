package domain

import (
	"strings"
	"time"
)

// Role gates access to administrative routes.
type Role string

const (
	RoleAuthor Role = "Author"
	RoleAdmin  Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAuthor || r == RoleAdmin
}

// Author is the identity that signs in, writes posts and comments.
// PasswordHash is empty for accounts created through Google sign-in.
type Author struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Avatar       string    `json:"avatar,omitempty"`
	GoogleID     string    `json:"googleId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasPassword reports whether the author can sign in with a local password.
func (a *Author) HasPassword() bool {
	return a.PasswordHash != ""
}

// IsAdmin reports whether the author carries the administrative role.
func (a *Author) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// NormalizeEmail lower-cases and trims an address so the unique index on
// email sees one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
