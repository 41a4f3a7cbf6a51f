package domain

import "time"

// Post is a community blog entry.
type Post struct {
	ID         string
	Title      string
	Slug       string
	Content    string
	AuthorID   *string
	AuthorName *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
