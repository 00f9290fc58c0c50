package ports

import (
	"context"

	"github.com/strivezine/blog-system/internal/core/domain"
)

// CreateBlogPostInput carries all data needed to create a post.
type CreateBlogPostInput struct {
	Category string
	Title    string
	Cover    string
	ReadTime domain.ReadTime
	Content  string
}

// UpdateBlogPostInput is the allow-list of post fields a caller may change.
// Nil fields are left untouched.
type UpdateBlogPostInput struct {
	Category *string
	Title    *string
	Cover    *string
	ReadTime *domain.ReadTime
	Content  *string
}

// CommentInput carries the writable fields of a comment.
type CommentInput struct {
	Text string
	Rate int
}

// BlogPostService defines use-case operations for posts and comments.
// Mutations take the acting author so ownership can be enforced.
type BlogPostService interface {
	Create(ctx context.Context, actor *domain.Author, in CreateBlogPostInput) (*domain.BlogPost, error)
	Get(ctx context.Context, id string) (*domain.BlogPost, error)
	List(ctx context.Context, q ListQuery) (*Page[*domain.BlogPost], error)
	Update(ctx context.Context, actor *domain.Author, id string, in UpdateBlogPostInput) (*domain.BlogPost, error)
	Delete(ctx context.Context, actor *domain.Author, id string) error

	ListComments(ctx context.Context, postID string) ([]domain.Comment, error)
	GetComment(ctx context.Context, postID, commentID string) (*domain.Comment, error)
	AddComment(ctx context.Context, actor *domain.Author, postID string, in CommentInput) (*domain.Comment, error)
	UpdateComment(ctx context.Context, actor *domain.Author, postID, commentID string, in CommentInput) (*domain.Comment, error)
	DeleteComment(ctx context.Context, actor *domain.Author, postID, commentID string) error
}
