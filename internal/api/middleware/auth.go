package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/strivezine/blog-system/internal/api/metrics"
	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
)

// authorKey is where Auth stores the resolved author in the echo context.
const authorKey = "auth.author"

// Auth extracts the bearer token, resolves it to an author and stores the
// author in the context. Failures are returned as domain errors so the
// central error handler picks the status; next is never called.
func Auth(svc ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return err
			}

			author, err := svc.Authenticate(c.Request().Context(), token)
			if err != nil {
				metrics.TokenRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
				return err
			}

			SetAuthor(c, author)
			return next(c)
		}
	}
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", domain.ErrMissingCredential
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrMissingCredential
	}
	return token, nil
}

// SetAuthor stores a resolved author on the request context.
func SetAuthor(c echo.Context, a *domain.Author) {
	c.Set(authorKey, a)
}

// AuthorFromContext returns the author stored by Auth, if any.
func AuthorFromContext(c echo.Context) (*domain.Author, bool) {
	a, ok := c.Get(authorKey).(*domain.Author)
	return a, ok && a != nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredential):
		return "invalid"
	case errors.Is(err, domain.ErrIdentityGone):
		return "identity_gone"
	case errors.Is(err, domain.ErrMissingCredential):
		return "missing"
	default:
		return "error"
	}
}
