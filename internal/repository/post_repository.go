package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/blog-post-service/internal/model"
)

const postSelect = `SELECT p.id, p.author_id, p.title, p.content, p.tags,
	p.created_at, p.updated_at, u.username
	FROM posts p JOIN users u ON p.author_id = u.id`

// PostRepo provides access to the `posts` table. Tags are stored as a JSON
// array column.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

// Create inserts a post owned by authorID and returns the stored record.
func (r *PostRepo) Create(ctx context.Context, authorID uint64, title, content string, tags []string) (model.Post, error) {
	raw, err := encodeTags(tags)
	if err != nil {
		return model.Post{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (author_id, title, content, tags) VALUES (?,?,?,?)",
		authorID, title, content, raw)
	if err != nil {
		return model.Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Post{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a post with its author name joined in.
func (r *PostRepo) GetByID(ctx context.Context, id uint64) (model.Post, error) {
	p, err := scanPost(r.DB.QueryRowContext(ctx, postSelect+" WHERE p.id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrPostNotFound
	}
	return p, err
}

// ListPage returns one page of posts, newest first, plus the total row count
// for pagination metadata.
func (r *PostRepo) ListPage(ctx context.Context, offset, limit int) ([]model.Post, int, error) {
	rows, err := r.DB.QueryContext(ctx,
		postSelect+" ORDER BY p.created_at DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&total); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListByAuthor returns all posts owned by a user, newest first.
func (r *PostRepo) ListByAuthor(ctx context.Context, authorID uint64) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		postSelect+" WHERE p.author_id=? ORDER BY p.created_at DESC", authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Update overwrites title, content and tags of a post. The caller performs
// the existence and ownership checks before calling Update; the handler
// merges unchanged fields from the fetched record.
func (r *PostRepo) Update(ctx context.Context, id uint64, title, content string, tags []string) (model.Post, error) {
	raw, err := encodeTags(tags)
	if err != nil {
		return model.Post{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE posts SET title=?, content=?, tags=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		title, content, raw, id)
	if err != nil {
		return model.Post{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a post by id.
func (r *PostRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM posts WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrPostNotFound
	}
	return nil
}

// DeleteByAuthor removes every post owned by a user. Used before deleting
// the user itself to satisfy the foreign key.
func (r *PostRepo) DeleteByAuthor(ctx context.Context, authorID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM posts WHERE author_id=?", authorID)
	return err
}

func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

func scanPost(row rowScanner) (model.Post, error) {
	var p model.Post
	var raw []byte
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &raw,
		&p.CreatedAt, &p.UpdatedAt, &p.AuthorName)
	if err != nil {
		return model.Post{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p.Tags); err != nil {
			return model.Post{}, err
		}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}
