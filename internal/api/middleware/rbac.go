package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/strivezine/blog-system/internal/core/domain"
)

// RequireRole lets the request through only when the authenticated author
// holds role. It must run after Auth.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			author, ok := AuthorFromContext(c)
			if !ok {
				return domain.ErrUnauthorized
			}
			if author.Role != role {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
