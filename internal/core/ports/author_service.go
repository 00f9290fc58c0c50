package ports

import (
	"context"

	"github.com/strivezine/blog-system/internal/core/domain"
)

// UpdateProfileInput is what an author may change on their own account.
// A Password equal to the current one does not trigger a re-hash.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Avatar    *string
	Password  *string
}

// AdminUpdateAuthorInput extends the profile allow-list with the fields only
// an administrator may set.
type AdminUpdateAuthorInput struct {
	UpdateProfileInput
	Email *string
	Role  *domain.Role
}

// AuthorService defines use-case operations on authors.
type AuthorService interface {
	List(ctx context.Context, q ListQuery) (*Page[*domain.Author], error)
	Get(ctx context.Context, id string) (*domain.Author, error)
	UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*domain.Author, error)
	AdminUpdate(ctx context.Context, id string, in AdminUpdateAuthorInput) (*domain.Author, error)
	Delete(ctx context.Context, id string) error
}
