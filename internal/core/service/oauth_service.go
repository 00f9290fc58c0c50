package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
)

// StateTTL bounds the time between the redirect to the provider and its callback.
const StateTTL = 10 * time.Minute

// OAuthService bridges Google identities to local authors. A Google login
// never takes over an existing password account by email: the owner has to
// link the identity from a signed-in session.
type OAuthService struct {
	repo     ports.AuthorRepository
	provider ports.OAuthProvider
	states   ports.OAuthStateStore
	issuer   ports.TokenIssuer
	audit    ports.AuditRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

func NewOAuthService(
	repo ports.AuthorRepository,
	provider ports.OAuthProvider,
	states ports.OAuthStateStore,
	issuer ports.TokenIssuer,
	audit ports.AuditRecorder,
	logger zerolog.Logger,
) *OAuthService {
	return &OAuthService{
		repo:     repo,
		provider: provider,
		states:   states,
		issuer:   issuer,
		audit:    recorderOrNop(audit),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// BeginLogin stores a fresh state and returns the provider consent URL.
func (s *OAuthService) BeginLogin(ctx context.Context) (string, error) {
	return s.begin(ctx, ports.OAuthState{})
}

// BeginLink is BeginLogin for a signed-in author; the callback attaches the
// Google identity to authorID.
func (s *OAuthService) BeginLink(ctx context.Context, authorID string) (string, error) {
	if authorID == "" {
		return "", domain.ErrUnauthorized
	}
	return s.begin(ctx, ports.OAuthState{LinkAuthorID: authorID})
}

func (s *OAuthService) begin(ctx context.Context, data ports.OAuthState) (string, error) {
	state := uuid.NewString()
	if err := s.states.Save(ctx, state, data, StateTTL); err != nil {
		return "", err
	}
	return s.provider.AuthCodeURL(state), nil
}

func (s *OAuthService) Complete(ctx context.Context, state, code string) (_ *ports.OAuthResult, err error) {
	ctx, span := tracer.Start(ctx, "OAuthService.Complete")
	defer func() { endSpan(span, err) }()

	if state == "" {
		return nil, domain.ErrOAuthState
	}
	data, err := s.states.Consume(ctx, state)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, domain.ValidationError("authorization code is required")
	}

	profile, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	if profile.Subject == "" || profile.Email == "" {
		return nil, fmt.Errorf("%w: profile without subject or email", domain.ErrUpstream)
	}
	profile.Email = domain.NormalizeEmail(profile.Email)
	span.SetAttributes(attribute.Bool("oauth.link", data.LinkAuthorID != ""))

	var result *ports.OAuthResult
	if data.LinkAuthorID != "" {
		result, err = s.link(ctx, data.LinkAuthorID, profile)
	} else {
		result, err = s.signIn(ctx, profile)
	}
	if err != nil {
		s.audit.Record(domain.AuditEvent{
			Type:     domain.AuditOAuthRejected,
			AuthorID: data.LinkAuthorID,
			Email:    profile.Email,
			Error:    err.Error(),
		})
		return nil, err
	}

	result.Token, err = s.issuer.Issue(result.Author.ID, result.Author.Role)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// signIn resolves the profile by Google subject first, then by email.
func (s *OAuthService) signIn(ctx context.Context, profile *ports.OAuthProfile) (*ports.OAuthResult, error) {
	author, err := s.repo.FindByGoogleID(ctx, profile.Subject)
	if err == nil {
		s.audit.Record(domain.AuditEvent{Type: domain.AuditOAuthLogin, AuthorID: author.ID, Email: author.Email, Success: true})
		return &ports.OAuthResult{Author: author}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, profile.Email)
	switch {
	case err == nil && !existing.HasPassword():
		s.logger.Warn().
			Str("author_id", existing.ID).
			Bool("has_google_id", existing.GoogleID != "").
			Msg("google sign-in matched an account without a password, an admin must set one before linking")
		return nil, domain.ErrLinkNeedsPassword
	case err == nil:
		s.logger.Info().Str("author_id", existing.ID).Msg("google sign-in matched an existing account by email, link required")
		return nil, domain.ErrLinkRequired
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &domain.Author{
		FirstName: nameOr(profile.GivenName, profile.Email),
		LastName:  strings.TrimSpace(profile.FamilyName),
		Email:     profile.Email,
		GoogleID:  profile.Subject,
		Role:      domain.RoleAuthor,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{Type: domain.AuditOAuthSignup, AuthorID: created.ID, Email: created.Email, Success: true})
	s.logger.Info().Str("author_id", created.ID).Msg("author created from google sign-in")
	return &ports.OAuthResult{Author: created, Created: true}, nil
}

// link attaches the Google subject to the author who started the flow.
func (s *OAuthService) link(ctx context.Context, authorID string, profile *ports.OAuthProfile) (*ports.OAuthResult, error) {
	owner, err := s.repo.FindByGoogleID(ctx, profile.Subject)
	switch {
	case err == nil && owner.ID == authorID:
		return &ports.OAuthResult{Author: owner, Linked: true}, nil
	case err == nil:
		return nil, fmt.Errorf("google identity belongs to another author: %w", domain.ErrAuthorExists)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	author, err := s.repo.FindByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrIdentityGone
		}
		return nil, err
	}

	author.GoogleID = profile.Subject
	author.UpdatedAt = s.now()
	updated, err := s.repo.Update(ctx, author)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{Type: domain.AuditOAuthLink, AuthorID: updated.ID, Email: updated.Email, Success: true})
	return &ports.OAuthResult{Author: updated, Linked: true}, nil
}

func nameOr(name, email string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

var _ ports.OAuthService = (*OAuthService)(nil)
