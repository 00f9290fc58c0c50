package handler

import (
	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
)

func toProfileInput(r updateProfileRequest) ports.UpdateProfileInput {
	return ports.UpdateProfileInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Avatar:    r.Avatar,
		Password:  r.Password,
	}
}

func toAdminUpdateInput(r adminUpdateAuthorRequest) ports.AdminUpdateAuthorInput {
	in := ports.AdminUpdateAuthorInput{
		UpdateProfileInput: toProfileInput(r.updateProfileRequest),
		Email:              r.Email,
	}
	if r.Role != nil {
		role := domain.Role(*r.Role)
		in.Role = &role
	}
	return in
}

func toCreateBlogPostInput(r createBlogPostRequest) ports.CreateBlogPostInput {
	return ports.CreateBlogPostInput{
		Category: r.Category,
		Title:    r.Title,
		Cover:    r.Cover,
		ReadTime: domain.ReadTime{Value: r.ReadTime.Value, Unit: r.ReadTime.Unit},
		Content:  r.Content,
	}
}

func toUpdateBlogPostInput(r updateBlogPostRequest) ports.UpdateBlogPostInput {
	in := ports.UpdateBlogPostInput{
		Category: r.Category,
		Title:    r.Title,
		Cover:    r.Cover,
		Content:  r.Content,
	}
	if r.ReadTime != nil {
		in.ReadTime = &domain.ReadTime{Value: r.ReadTime.Value, Unit: r.ReadTime.Unit}
	}
	return in
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		AuthorID:  c.AuthorID,
		Text:      c.Text,
		Rate:      c.Rate,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCommentResponses(cs []domain.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(cs))
	for i := range cs {
		out = append(out, toCommentResponse(&cs[i]))
	}
	return out
}
