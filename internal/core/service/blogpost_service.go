package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
)

// maxCommentAttempts bounds retries of a comment write-back that lost the
// version race.
const maxCommentAttempts = 3

type BlogPostService struct {
	repo   ports.BlogPostRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewBlogPostService(repo ports.BlogPostRepository, logger zerolog.Logger) *BlogPostService {
	return &BlogPostService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a post authored by actor.
func (s *BlogPostService) Create(ctx context.Context, actor *domain.Author, in ports.CreateBlogPostInput) (*domain.BlogPost, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	post := &domain.BlogPost{
		Category: strings.TrimSpace(in.Category),
		Title:    strings.TrimSpace(in.Title),
		Cover:    strings.TrimSpace(in.Cover),
		ReadTime: in.ReadTime,
		AuthorID: actor.ID,
		Content:  in.Content,
		Comments: []domain.Comment{},
	}
	if err := validatePost(post); err != nil {
		return nil, err
	}
	now := s.now()
	post.CreatedAt = now
	post.UpdatedAt = now

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("post_id", created.ID).Str("author_id", actor.ID).Msg("blog post created")
	return created, nil
}

func (s *BlogPostService) Get(ctx context.Context, id string) (*domain.BlogPost, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BlogPostService) List(ctx context.Context, q ports.ListQuery) (*ports.Page[*domain.BlogPost], error) {
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &ports.Page[*domain.BlogPost]{Items: items, Total: total, Offset: q.Offset, Limit: q.Limit}, nil
}

func (s *BlogPostService) Update(ctx context.Context, actor *domain.Author, id string, in ports.UpdateBlogPostInput) (*domain.BlogPost, error) {
	post, err := s.ownedPost(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Category != nil {
		post.Category = strings.TrimSpace(*in.Category)
	}
	if in.Title != nil {
		post.Title = strings.TrimSpace(*in.Title)
	}
	if in.Cover != nil {
		post.Cover = strings.TrimSpace(*in.Cover)
	}
	if in.ReadTime != nil {
		post.ReadTime = *in.ReadTime
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if err := validatePost(post); err != nil {
		return nil, err
	}
	post.UpdatedAt = s.now()
	return s.repo.Update(ctx, post)
}

func (s *BlogPostService) Delete(ctx context.Context, actor *domain.Author, id string) error {
	if _, err := s.ownedPost(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *BlogPostService) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Comments == nil {
		return []domain.Comment{}, nil
	}
	return post.Comments, nil
}

func (s *BlogPostService) GetComment(ctx context.Context, postID, commentID string) (*domain.Comment, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	i := post.CommentIndex(commentID)
	if i < 0 {
		return nil, domain.ErrCommentNotFound
	}
	c := post.Comments[i]
	return &c, nil
}

func (s *BlogPostService) AddComment(ctx context.Context, actor *domain.Author, postID string, in ports.CommentInput) (*domain.Comment, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := validateComment(in); err != nil {
		return nil, err
	}
	now := s.now()
	comment := domain.Comment{
		ID:        uuid.NewString(),
		AuthorID:  actor.ID,
		Text:      strings.TrimSpace(in.Text),
		Rate:      in.Rate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.AddComment(ctx, postID, comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment replaces the text and rate of a comment owned by actor.
func (s *BlogPostService) UpdateComment(ctx context.Context, actor *domain.Author, postID, commentID string, in ports.CommentInput) (*domain.Comment, error) {
	if err := validateComment(in); err != nil {
		return nil, err
	}
	var updated domain.Comment
	err := s.mutateComment(ctx, actor, postID, commentID, func(post *domain.BlogPost, i int) {
		c := &post.Comments[i]
		c.Text = strings.TrimSpace(in.Text)
		c.Rate = in.Rate
		c.UpdatedAt = s.now()
		updated = *c
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *BlogPostService) DeleteComment(ctx context.Context, actor *domain.Author, postID, commentID string) error {
	return s.mutateComment(ctx, actor, postID, commentID, func(post *domain.BlogPost, i int) {
		post.RemoveComment(i)
	})
}

// mutateComment reads the post, applies fn to the comment at its index and
// writes the comment slice back guarded by the post version. A lost race is
// retried against a fresh read.
func (s *BlogPostService) mutateComment(ctx context.Context, actor *domain.Author, postID, commentID string, fn func(*domain.BlogPost, int)) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}
	for attempt := 1; ; attempt++ {
		post, err := s.repo.FindByID(ctx, postID)
		if err != nil {
			return err
		}
		i := post.CommentIndex(commentID)
		if i < 0 {
			return domain.ErrCommentNotFound
		}
		if !post.Comments[i].CanModify(actor) {
			return domain.ErrForbidden
		}

		fn(post, i)
		err = s.repo.ReplaceComments(ctx, post.ID, post.Comments, post.Version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrConflict) || attempt >= maxCommentAttempts {
			return err
		}
		s.logger.Debug().Str("post_id", postID).Int("attempt", attempt).Msg("comment write-back conflict, retrying")
	}
}

func (s *BlogPostService) ownedPost(ctx context.Context, actor *domain.Author, id string) (*domain.BlogPost, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.CanModify(actor) {
		return nil, domain.ErrForbidden
	}
	return post, nil
}

func validatePost(p *domain.BlogPost) error {
	switch {
	case p.Category == "":
		return domain.ValidationError("category is required")
	case p.Title == "":
		return domain.ValidationError("title is required")
	case p.ReadTime.Value <= 0 || strings.TrimSpace(p.ReadTime.Unit) == "":
		return domain.ValidationError("read time needs a positive value and a unit")
	case utf8.RuneCountInString(p.Content) < domain.MinContentLength:
		return domain.ValidationError("content must be at least %d characters", domain.MinContentLength)
	}
	return nil
}

func validateComment(in ports.CommentInput) error {
	if strings.TrimSpace(in.Text) == "" {
		return domain.ValidationError("comment text is required")
	}
	if in.Rate < 1 || in.Rate > 5 {
		return domain.ValidationError("rate must be between 1 and 5")
	}
	return nil
}

var _ ports.BlogPostService = (*BlogPostService)(nil)
