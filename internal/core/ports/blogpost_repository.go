package ports

import (
	"context"

	"github.com/strivezine/blog-system/internal/core/domain"
)

// BlogPostRepository defines persistence operations for posts and their
// embedded comments.
type BlogPostRepository interface {
	Create(ctx context.Context, post *domain.BlogPost) (*domain.BlogPost, error)
	FindByID(ctx context.Context, id string) (*domain.BlogPost, error)
	// Update persists the post fields. Comments are never written here.
	Update(ctx context.Context, post *domain.BlogPost) (*domain.BlogPost, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q ListQuery) ([]*domain.BlogPost, int64, error)

	// AddComment atomically appends a comment and bumps the post version.
	AddComment(ctx context.Context, postID string, comment domain.Comment) error
	// ReplaceComments writes back the whole comment slice only if the stored
	// version still equals expectedVersion, otherwise domain.ErrConflict.
	ReplaceComments(ctx context.Context, postID string, comments []domain.Comment, expectedVersion int64) error
}
