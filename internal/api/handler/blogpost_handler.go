package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/strivezine/blog-system/internal/api/metrics"
	"github.com/strivezine/blog-system/internal/core/ports"
)

// BlogPostHandler serves blog posts and their comments.
type BlogPostHandler struct {
	service ports.BlogPostService
}

func NewBlogPostHandler(service ports.BlogPostService) *BlogPostHandler {
	return &BlogPostHandler{service: service}
}

// List handles GET /blogPosts.
//
// @Summary      List blog posts
// @Tags         blogPosts
// @Produce      json
// @Param        limit     query     int     false  "Page size (max 100)"
// @Param        offset    query     int     false  "Items to skip"
// @Param        sort      query     string  false  "Comma separated fields, '-' for descending"
// @Param        category  query     string  false  "Filter by category"
// @Param        title     query     string  false  "Filter by title (partial, case-insensitive)"
// @Success      200       {object}  blogPostListResponse
// @Failure      400       {object}  errorResponse
// @Router       /blogPosts [get]
func (h *BlogPostHandler) List(c echo.Context) error {
	q, err := parseListQuery(c, blogPostListFields)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, blogPostListResponse{
		Links:      buildLinks(c, page.Offset, page.Limit, page.Total),
		Total:      page.Total,
		TotalPages: page.TotalPages(),
		BlogPosts:  page.Items,
	})
}

// Create handles POST /blogPosts. The caller becomes the post author.
//
// @Summary      Create a blog post
// @Tags         blogPosts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBlogPostRequest  true  "Post"
// @Success      201   {object}  idResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /blogPosts [post]
func (h *BlogPostHandler) Create(c echo.Context) error {
	author, err := currentAuthor(c)
	if err != nil {
		return err
	}
	var req createBlogPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.service.Create(c.Request().Context(), author, toCreateBlogPostInput(req))
	if err != nil {
		return err
	}
	metrics.BlogPostsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, idResponse{ID: post.ID})
}

// Get handles GET /blogPosts/:id.
//
// @Summary      Get a blog post
// @Tags         blogPosts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  domain.BlogPost
// @Failure      404  {object}  errorResponse
// @Router       /blogPosts/{id} [get]
func (h *BlogPostHandler) Get(c echo.Context) error {
	post, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Update handles PUT /blogPosts/:id.
//
// @Summary      Update a blog post
// @Tags         blogPosts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Post id"
// @Param        body  body      updateBlogPostRequest  true  "Fields to change"
// @Success      200   {object}  domain.BlogPost
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /blogPosts/{id} [put]
func (h *BlogPostHandler) Update(c echo.Context) error {
	author, err := currentAuthor(c)
	if err != nil {
		return err
	}
	var req updateBlogPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.service.Update(c.Request().Context(), author, c.Param("id"), toUpdateBlogPostInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /blogPosts/:id.
//
// @Summary      Delete a blog post
// @Tags         blogPosts
// @Security     BearerAuth
// @Param        id   path  string  true  "Post id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /blogPosts/{id} [delete]
func (h *BlogPostHandler) Delete(c echo.Context) error {
	author, err := currentAuthor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), author, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
