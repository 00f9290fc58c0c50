package ports

import (
	"context"

	"github.com/strivezine/blog-system/internal/core/domain"
)

// AuthorRepository is the credential store. Email is unique; implementations
// must return domain.ErrAuthorExists on a duplicate email or Google subject
// and domain.ErrAuthorNotFound on a lookup miss.
type AuthorRepository interface {
	Create(ctx context.Context, author *domain.Author) (*domain.Author, error)
	FindByID(ctx context.Context, id string) (*domain.Author, error)
	FindByEmail(ctx context.Context, email string) (*domain.Author, error)
	FindByGoogleID(ctx context.Context, googleID string) (*domain.Author, error)
	// Update persists the mutable fields of author and returns the stored document.
	Update(ctx context.Context, author *domain.Author) (*domain.Author, error)
	Delete(ctx context.Context, id string) error
	// List returns a page of authors matching q and the total count.
	List(ctx context.Context, q ListQuery) ([]*domain.Author, int64, error)
}
