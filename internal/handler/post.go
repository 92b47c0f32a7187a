package handler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-post-service/internal/apperr"
	"github.com/iliyamo/blog-post-service/internal/model"
	"github.com/iliyamo/blog-post-service/internal/queue"
	"github.com/iliyamo/blog-post-service/internal/repository"
	queue_publisher "github.com/iliyamo/blog-post-service/internal/service"
)

// PostHandler serves the post resource. Reads are public; mutations require
// authentication and, for existing posts, ownership. The ownership check
// lives here rather than in middleware because the post must be fetched
// before its owner is known.
type PostHandler struct {
	Posts PostStore
}

func NewPostHandler(posts PostStore) *PostHandler {
	return &PostHandler{Posts: posts}
}

type postReq struct {
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
}

type paginationJSON struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Limit       int `json:"limit"`
	TotalItems  int `json:"totalItems"`
}

// ListPosts handles GET /api/posts with 1-based page and limit query params.
func (h *PostHandler) ListPosts(c echo.Context) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	posts, total, err := h.Posts.ListPage(ctx, (page-1)*limit, limit)
	if err != nil {
		return apperr.Internal(err)
	}

	out := make([]postJSON, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostJSON(p))
	}
	return success(c, http.StatusOK, echo.Map{
		"posts": out,
		"pagination": paginationJSON{
			CurrentPage: page,
			TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
			Limit:       limit,
			TotalItems:  total,
		},
	})
}

// GetPost handles GET /api/posts/:id.
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return apperr.NotFound("Post not found")
		}
		return apperr.Internal(err)
	}
	return success(c, http.StatusOK, echo.Map{"post": toPostJSON(post)})
}

// CreatePost handles POST /api/posts. The caller becomes the immutable owner.
func (h *PostHandler) CreatePost(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	var req postReq
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	post, err := h.Posts.Create(ctx, uid, deref(req.Title), deref(req.Content), req.Tags)
	if err != nil {
		return apperr.Internal(err)
	}

	go func() {
		_ = queue_publisher.PublishActivity(context.Background(), queue.ActivityEvent{
			Type:   queue.EventPostCreated,
			UserID: uid,
			PostID: post.ID,
			Detail: fmt.Sprintf("title=%q", post.Title),
		})
	}()

	return success(c, http.StatusCreated, echo.Map{"post": toPostJSON(post)})
}

// UpdatePost handles PUT /api/posts/:id with partial fields. Existence is
// checked before ownership, so an absent post is a 404 for everyone while an
// existing post owned by someone else is a 403.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req postReq
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	current, err := h.fetchOwned(ctx, id, uid, "update")
	if err != nil {
		return err
	}

	title := current.Title
	if req.Title != nil {
		title = *req.Title
	}
	content := current.Content
	if req.Content != nil {
		content = *req.Content
	}
	tags := current.Tags
	if req.Tags != nil {
		tags = req.Tags
	}

	post, err := h.Posts.Update(ctx, id, title, content, tags)
	if err != nil {
		return apperr.Internal(err)
	}

	go func() {
		_ = queue_publisher.PublishActivity(context.Background(), queue.ActivityEvent{
			Type:   queue.EventPostUpdated,
			UserID: uid,
			PostID: post.ID,
		})
	}()

	return success(c, http.StatusOK, echo.Map{"post": toPostJSON(post)})
}

// DeletePost handles DELETE /api/posts/:id with the same existence-then-
// ownership sequencing as UpdatePost.
func (h *PostHandler) DeletePost(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.fetchOwned(ctx, id, uid, "delete"); err != nil {
		return err
	}
	if err := h.Posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return apperr.NotFound("Post not found")
		}
		return apperr.Internal(err)
	}

	go func() {
		_ = queue_publisher.PublishActivity(context.Background(), queue.ActivityEvent{
			Type:   queue.EventPostDeleted,
			UserID: uid,
			PostID: id,
		})
	}()

	return confirm(c, "Post deleted successfully")
}

// fetchOwned loads a post and enforces the ownership rule for mutations:
// absent -> 404, wrong owner -> 403.
func (h *PostHandler) fetchOwned(ctx context.Context, id, uid uint64, action string) (model.Post, error) {
	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return model.Post{}, apperr.NotFound("Post not found")
		}
		return model.Post{}, apperr.Internal(err)
	}
	if post.AuthorID != uid {
		return model.Post{}, apperr.Forbidden("Not authorized to " + action + " this post")
	}
	return post, nil
}

func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
