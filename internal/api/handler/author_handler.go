package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/strivezine/blog-system/internal/core/ports"
)

// AuthorHandler serves the author resources. Admin-only routes are gated by
// middleware at registration time.
type AuthorHandler struct {
	service ports.AuthorService
}

func NewAuthorHandler(service ports.AuthorService) *AuthorHandler {
	return &AuthorHandler{service: service}
}

// List handles GET /authors.
//
// @Summary      List authors
// @Tags         authors
// @Produce      json
// @Param        limit   query     int     false  "Page size (max 100)"
// @Param        offset  query     int     false  "Items to skip"
// @Param        sort    query     string  false  "Comma separated fields, '-' for descending"
// @Param        role    query     string  false  "Filter by role"
// @Success      200     {object}  authorListResponse
// @Failure      400     {object}  errorResponse
// @Router       /authors [get]
func (h *AuthorHandler) List(c echo.Context) error {
	q, err := parseListQuery(c, authorListFields)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authorListResponse{
		Links:      buildLinks(c, page.Offset, page.Limit, page.Total),
		Total:      page.Total,
		TotalPages: page.TotalPages(),
		Authors:    page.Items,
	})
}

// Me handles GET /authors/me.
//
// @Summary      Current author profile
// @Tags         authors
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Author
// @Failure      401  {object}  errorResponse
// @Router       /authors/me [get]
func (h *AuthorHandler) Me(c echo.Context) error {
	author, err := currentAuthor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, author)
}

// UpdateMe handles PUT /authors/me.
//
// @Summary      Update own profile
// @Tags         authors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.Author
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /authors/me [put]
func (h *AuthorHandler) UpdateMe(c echo.Context) error {
	author, err := currentAuthor(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := h.service.UpdateProfile(c.Request().Context(), author.ID, toProfileInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Get handles GET /authors/:id.
//
// @Summary      Get an author
// @Tags         authors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Author id"
// @Success      200  {object}  domain.Author
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /authors/{id} [get]
func (h *AuthorHandler) Get(c echo.Context) error {
	author, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, author)
}

// Update handles PUT /authors/:id.
//
// @Summary      Update an author
// @Tags         authors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Author id"
// @Param        body  body      adminUpdateAuthorRequest  true  "Fields to change"
// @Success      200   {object}  domain.Author
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /authors/{id} [put]
func (h *AuthorHandler) Update(c echo.Context) error {
	var req adminUpdateAuthorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := h.service.AdminUpdate(c.Request().Context(), c.Param("id"), toAdminUpdateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /authors/:id.
//
// @Summary      Delete an author
// @Tags         authors
// @Security     BearerAuth
// @Param        id   path  string  true  "Author id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /authors/{id} [delete]
func (h *AuthorHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
