package handler

import (
	"time"

	"github.com/strivezine/blog-system/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type idResponse struct {
	ID string `json:"id"`
}

// --- Auth ---

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6"`
	Avatar    string `json:"avatar"    validate:"omitempty,url"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// --- Authors ---

type updateProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1"`
	LastName  *string `json:"lastName"  validate:"omitempty,min=1"`
	Avatar    *string `json:"avatar"    validate:"omitempty,url"`
	Password  *string `json:"password"  validate:"omitempty,min=6"`
}

type adminUpdateAuthorRequest struct {
	updateProfileRequest
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role"  validate:"omitempty,oneof=Author Admin"`
}

type authorListResponse struct {
	Links      pageLinks        `json:"links"`
	Total      int64            `json:"total"`
	TotalPages int              `json:"totalPages"`
	Authors    []*domain.Author `json:"authors"`
}

// --- Blog posts ---

type readTimeRequest struct {
	Value int    `json:"value" validate:"required,gt=0"`
	Unit  string `json:"unit"  validate:"required"`
}

type createBlogPostRequest struct {
	Category string          `json:"category" validate:"required"`
	Title    string          `json:"title"    validate:"required"`
	Cover    string          `json:"cover"    validate:"omitempty,url"`
	ReadTime readTimeRequest `json:"readTime" validate:"required"`
	Content  string          `json:"content"  validate:"required,min=100"`
}

type updateBlogPostRequest struct {
	Category *string          `json:"category" validate:"omitempty,min=1"`
	Title    *string          `json:"title"    validate:"omitempty,min=1"`
	Cover    *string          `json:"cover"    validate:"omitempty,url"`
	ReadTime *readTimeRequest `json:"readTime"`
	Content  *string          `json:"content"  validate:"omitempty,min=100"`
}

type blogPostListResponse struct {
	Links      pageLinks          `json:"links"`
	Total      int64              `json:"total"`
	TotalPages int                `json:"totalPages"`
	BlogPosts  []*domain.BlogPost `json:"blogPosts"`
}

// --- Comments ---

type commentRequest struct {
	Text string `json:"text" validate:"required"`
	Rate int    `json:"rate" validate:"required,gte=1,lte=5"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Text      string    `json:"text"`
	Rate      int       `json:"rate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
