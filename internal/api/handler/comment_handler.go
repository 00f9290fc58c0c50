package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/strivezine/blog-system/internal/api/metrics"
	"github.com/strivezine/blog-system/internal/core/ports"
)

// ListComments handles GET /blogPosts/:id/comments.
//
// @Summary      List comments of a post
// @Tags         comments
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {array}   commentResponse
// @Failure      404  {object}  errorResponse
// @Router       /blogPosts/{id}/comments [get]
func (h *BlogPostHandler) ListComments(c echo.Context) error {
	comments, err := h.service.ListComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponses(comments))
}

// GetComment handles GET /blogPosts/:id/comments/:commentId.
//
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Param        id         path      string  true  "Post id"
// @Param        commentId  path      string  true  "Comment id"
// @Success      200        {object}  commentResponse
// @Failure      404        {object}  errorResponse
// @Router       /blogPosts/{id}/comments/{commentId} [get]
func (h *BlogPostHandler) GetComment(c echo.Context) error {
	comment, err := h.service.GetComment(c.Request().Context(), c.Param("id"), c.Param("commentId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

// AddComment handles POST /blogPosts/:id/comments.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Post id"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      201   {object}  commentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /blogPosts/{id}/comments [post]
func (h *BlogPostHandler) AddComment(c echo.Context) error {
	author, err := currentAuthor(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.service.AddComment(c.Request().Context(), author, c.Param("id"), ports.CommentInput{Text: req.Text, Rate: req.Rate})
	if err != nil {
		return err
	}
	metrics.CommentsWrittenTotal.WithLabelValues("add").Inc()
	return c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// UpdateComment handles PUT /blogPosts/:id/comments/:commentId.
//
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string          true  "Post id"
// @Param        commentId  path      string          true  "Comment id"
// @Param        body       body      commentRequest  true  "Comment"
// @Success      200        {object}  commentResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Failure      409        {object}  errorResponse
// @Router       /blogPosts/{id}/comments/{commentId} [put]
func (h *BlogPostHandler) UpdateComment(c echo.Context) error {
	author, err := currentAuthor(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.service.UpdateComment(c.Request().Context(), author, c.Param("id"), c.Param("commentId"), ports.CommentInput{Text: req.Text, Rate: req.Rate})
	if err != nil {
		return err
	}
	metrics.CommentsWrittenTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

// DeleteComment handles DELETE /blogPosts/:id/comments/:commentId.
//
// @Summary      Delete a comment
// @Tags         comments
// @Security     BearerAuth
// @Param        id         path  string  true  "Post id"
// @Param        commentId  path  string  true  "Comment id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /blogPosts/{id}/comments/{commentId} [delete]
func (h *BlogPostHandler) DeleteComment(c echo.Context) error {
	author, err := currentAuthor(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteComment(c.Request().Context(), author, c.Param("id"), c.Param("commentId")); err != nil {
		return err
	}
	metrics.CommentsWrittenTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
