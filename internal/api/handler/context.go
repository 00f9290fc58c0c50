package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/strivezine/blog-system/internal/api/middleware"
	"github.com/strivezine/blog-system/internal/core/domain"
)

// currentAuthor returns the author resolved by the Auth middleware. Its
// absence means the route was registered without Auth.
func currentAuthor(c echo.Context) (*domain.Author, error) {
	author, ok := middleware.AuthorFromContext(c)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return author, nil
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.ValidationError("invalid payload")
	}
	return c.Validate(req)
}
