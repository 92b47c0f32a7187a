package model

import "time"

// Post represents a row in the `posts` table plus the author's username
// joined in by the repository. AuthorID is set at creation and never
// changes; there is no ownership transfer.
type Post struct {
	ID         uint64    // posts.id
	AuthorID   uint64    // posts.author_id
	Title      string    // posts.title
	Content    string    // posts.content
	Tags       []string  // posts.tags (JSON column)
	AuthorName string    // users.username via join
	CreatedAt  time.Time // posts.created_at
	UpdatedAt  time.Time // posts.updated_at
}
