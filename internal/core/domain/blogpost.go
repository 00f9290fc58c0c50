package domain

import "time"

// ReadTime is the estimated reading time of a post.
type ReadTime struct {
	Value int    `json:"value"`
	Unit  string `json:"unit"`
}

// Comment is embedded in its BlogPost.
type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Text      string    `json:"text"`
	Rate      int       `json:"rate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BlogPost is the aggregate root for posts and their comments.
// Version increases on every write-back of the comment slice.
type BlogPost struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Cover     string    `json:"cover,omitempty"`
	ReadTime  ReadTime  `json:"readTime"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	Comments  []Comment `json:"comments"`
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MinContentLength is the shortest accepted post body.
const MinContentLength = 100

// CommentIndex returns the slice index of the comment with the given id, or -1.
func (p *BlogPost) CommentIndex(commentID string) int {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return i
		}
	}
	return -1
}

// RemoveComment deletes the comment at index i preserving order.
func (p *BlogPost) RemoveComment(i int) {
	p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
}

// CanModify reports whether the author owns the post or is an admin.
func (p *BlogPost) CanModify(a *Author) bool {
	return a != nil && (a.IsAdmin() || p.AuthorID == a.ID)
}

// CanModify reports whether the author wrote the comment or is an admin.
func (c *Comment) CanModify(a *Author) bool {
	return a != nil && (a.IsAdmin() || c.AuthorID == a.ID)
}
