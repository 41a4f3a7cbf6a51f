package dto

import (
	"time"

	"github.com/spec-kit/titan-observatory/internal/domain"
)

// PostRequest payload for creating or editing a post.
type PostRequest struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Content string `json:"content"`
}

// PostSummary is the list view of a post.
type PostSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	AuthorName *string   `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// PostDetail is the full view of a post.
type PostDetail struct {
	PostSummary
	Content   string    `json:"content"`
	AuthorID  *string   `json:"author_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPostSummary maps a post to its list view.
func NewPostSummary(p *domain.Post) PostSummary {
	return PostSummary{
		ID:         p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		AuthorName: p.AuthorName,
		CreatedAt:  p.CreatedAt,
	}
}

// NewPostDetail maps a post to its full view.
func NewPostDetail(p *domain.Post) PostDetail {
	return PostDetail{
		PostSummary: NewPostSummary(p),
		Content:     p.Content,
		AuthorID:    p.AuthorID,
		UpdatedAt:   p.UpdatedAt,
	}
}
