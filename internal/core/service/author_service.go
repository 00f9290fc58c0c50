package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
)

type AuthorService struct {
	repo   ports.AuthorRepository
	hasher ports.PasswordHasher
	audit  ports.AuditRecorder
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuthorService(repo ports.AuthorRepository, hasher ports.PasswordHasher, audit ports.AuditRecorder, logger zerolog.Logger) *AuthorService {
	return &AuthorService{
		repo:   repo,
		hasher: hasher,
		audit:  recorderOrNop(audit),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthorService) List(ctx context.Context, q ports.ListQuery) (*ports.Page[*domain.Author], error) {
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &ports.Page[*domain.Author]{Items: items, Total: total, Offset: q.Offset, Limit: q.Limit}, nil
}

func (s *AuthorService) Get(ctx context.Context, id string) (*domain.Author, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile applies the self-service allow-list to author id.
func (s *AuthorService) UpdateProfile(ctx context.Context, id string, in ports.UpdateProfileInput) (*domain.Author, error) {
	author, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProfile(author, in); err != nil {
		return nil, err
	}
	author.UpdatedAt = s.now()
	return s.repo.Update(ctx, author)
}

// AdminUpdate additionally lets an administrator change email and role.
func (s *AuthorService) AdminUpdate(ctx context.Context, id string, in ports.AdminUpdateAuthorInput) (*domain.Author, error) {
	author, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProfile(author, in.UpdateProfileInput); err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := domain.NormalizeEmail(*in.Email)
		if !strings.Contains(email, "@") {
			return nil, domain.ValidationError("a valid email is required")
		}
		author.Email = email
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, domain.ValidationError("unknown role %q", *in.Role)
		}
		if author.Role != *in.Role {
			s.logger.Info().Str("author_id", author.ID).Str("role", string(*in.Role)).Msg("author role changed")
		}
		author.Role = *in.Role
	}
	author.UpdatedAt = s.now()
	return s.repo.Update(ctx, author)
}

func (s *AuthorService) Delete(ctx context.Context, id string) error {
	author, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(domain.AuditEvent{Type: domain.AuditAuthorDeleted, AuthorID: id, Email: author.Email, Success: true})
	return nil
}

// applyProfile copies the non-nil fields of in onto a. The password is
// re-hashed only when it differs from the stored one.
func (s *AuthorService) applyProfile(a *domain.Author, in ports.UpdateProfileInput) error {
	if in.FirstName != nil {
		v := strings.TrimSpace(*in.FirstName)
		if v == "" {
			return domain.ValidationError("first name must not be empty")
		}
		a.FirstName = v
	}
	if in.LastName != nil {
		v := strings.TrimSpace(*in.LastName)
		if v == "" {
			return domain.ValidationError("last name must not be empty")
		}
		a.LastName = v
	}
	if in.Avatar != nil {
		a.Avatar = strings.TrimSpace(*in.Avatar)
	}
	if in.Password != nil {
		if *in.Password == "" {
			return domain.ValidationError("password must not be empty")
		}
		if a.HasPassword() && s.hasher.Verify(*in.Password, a.PasswordHash) {
			return nil
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return err
		}
		a.PasswordHash = hash
	}
	return nil
}

var _ ports.AuthorService = (*AuthorService)(nil)
