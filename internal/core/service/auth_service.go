package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
)

// AuthService implements registration, password login and bearer token
// resolution.
type AuthService struct {
	repo     ports.AuthorRepository
	hasher   ports.PasswordHasher
	issuer   ports.TokenIssuer
	verifier ports.TokenVerifier
	limiter  ports.LoginLimiter
	audit    ports.AuditRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAuthService wires the auth use cases. limiter and audit may be nil.
func NewAuthService(
	repo ports.AuthorRepository,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
	verifier ports.TokenVerifier,
	limiter ports.LoginLimiter,
	audit ports.AuditRecorder,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		issuer:   issuer,
		verifier: verifier,
		limiter:  limiter,
		audit:    recorderOrNop(audit),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (_ *domain.Author, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Register")
	defer func() { endSpan(span, err) }()

	email := domain.NormalizeEmail(in.Email)
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	switch {
	case firstName == "" || lastName == "":
		return nil, domain.ValidationError("first and last name are required")
	case !strings.Contains(email, "@"):
		return nil, domain.ValidationError("a valid email is required")
	case in.Password == "":
		return nil, domain.ValidationError("password is required")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &domain.Author{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAuthor,
		Avatar:       strings.TrimSpace(in.Avatar),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{Type: domain.AuditRegister, AuthorID: created.ID, Email: email, Success: true})
	s.logger.Info().Str("author_id", created.ID).Msg("author registered")
	return created, nil
}

// Login checks the password of the author owning in.Email and returns a
// session token. An unknown email and a wrong password are indistinguishable
// to the caller.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (_ string, _ *domain.Author, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer func() { endSpan(span, err) }()

	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return "", nil, domain.ValidationError("email and password are required")
	}

	if s.limiter != nil {
		if lerr := s.limiter.Check(ctx, email, in.IP); lerr != nil {
			if errors.Is(lerr, domain.ErrTooManyAttempts) {
				s.recordLogin(email, "", in.IP, lerr)
				return "", nil, lerr
			}
			s.logger.Warn().Err(lerr).Msg("login limiter unavailable")
		}
	}

	author, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "", nil, s.loginFailed(ctx, email, in.IP)
	case err != nil:
		return "", nil, err
	}
	span.SetAttributes(attribute.String("author.id", author.ID))

	if !author.HasPassword() || !s.hasher.Verify(in.Password, author.PasswordHash) {
		return "", nil, s.loginFailed(ctx, email, in.IP)
	}

	if s.limiter != nil {
		if lerr := s.limiter.Reset(ctx, email, in.IP); lerr != nil {
			s.logger.Warn().Err(lerr).Msg("login limiter reset failed")
		}
	}

	token, err := s.issuer.Issue(author.ID, author.Role)
	if err != nil {
		return "", nil, err
	}

	s.recordLogin(email, author.ID, in.IP, nil)
	return token, author, nil
}

// Authenticate verifies token and loads its subject. A token whose author
// was deleted yields domain.ErrIdentityGone.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Author, error) {
	if token == "" {
		return nil, domain.ErrMissingCredential
	}
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	author, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrIdentityGone
		}
		return nil, err
	}
	return author, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email, ip string) error {
	if s.limiter != nil {
		if err := s.limiter.RecordFailure(ctx, email, ip); err != nil {
			s.logger.Warn().Err(err).Msg("login limiter record failed")
		}
	}
	s.recordLogin(email, "", ip, domain.ErrInvalidCredential)
	return domain.ErrInvalidCredential
}

func (s *AuthService) recordLogin(email, authorID, ip string, err error) {
	event := domain.AuditEvent{
		Type:     domain.AuditLogin,
		AuthorID: authorID,
		Email:    email,
		IP:       ip,
		Success:  err == nil,
	}
	if err != nil {
		event.Type = domain.AuditLoginFailed
		event.Error = err.Error()
	}
	s.audit.Record(event)
}

var _ ports.AuthService = (*AuthService)(nil)
