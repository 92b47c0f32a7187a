package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/blog-post-service/internal/apperr"
	"github.com/iliyamo/blog-post-service/internal/model"
	"github.com/iliyamo/blog-post-service/internal/repository"
)

// fakePosts is an in-memory PostStore.
type fakePosts struct {
	nextID uint64
	posts  map[uint64]model.Post
}

func newFakePosts() *fakePosts {
	return &fakePosts{nextID: 1, posts: map[uint64]model.Post{}}
}

func (f *fakePosts) Create(_ context.Context, authorID uint64, title, content string, tags []string) (model.Post, error) {
	if tags == nil {
		tags = []string{}
	}
	p := model.Post{
		ID: f.nextID, AuthorID: authorID, Title: title, Content: content, Tags: tags,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	f.posts[p.ID] = p
	f.nextID++
	return p, nil
}

func (f *fakePosts) GetByID(_ context.Context, id uint64) (model.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return model.Post{}, repository.ErrPostNotFound
	}
	return p, nil
}

func (f *fakePosts) ListPage(_ context.Context, offset, limit int) ([]model.Post, int, error) {
	ids := make([]uint64, 0, len(f.posts))
	for id := range f.posts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	var out []model.Post
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, f.posts[id])
	}
	return out, len(f.posts), nil
}

func (f *fakePosts) ListByAuthor(_ context.Context, authorID uint64) ([]model.Post, error) {
	var out []model.Post
	for _, p := range f.posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePosts) Update(_ context.Context, id uint64, title, content string, tags []string) (model.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return model.Post{}, repository.ErrPostNotFound
	}
	p.Title, p.Content, p.Tags = title, content, tags
	p.UpdatedAt = time.Now().UTC()
	f.posts[id] = p
	return p, nil
}

func (f *fakePosts) Delete(_ context.Context, id uint64) error {
	if _, ok := f.posts[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePosts) DeleteByAuthor(_ context.Context, authorID uint64) error {
	for id, p := range f.posts {
		if p.AuthorID == authorID {
			delete(f.posts, id)
		}
	}
	return nil
}

func postCtx(t *testing.T, method, target, body string, callerID uint64, paramID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if callerID != 0 {
		c.Set("user_id", callerID)
	}
	if paramID != "" {
		c.SetParamNames("id")
		c.SetParamValues(paramID)
	}
	return c, rec
}

func seededHandler(t *testing.T) (*PostHandler, *fakePosts, model.Post) {
	t.Helper()
	store := newFakePosts()
	p, err := store.Create(context.Background(), 1, "First Post", "hello", []string{"go"})
	require.NoError(t, err)
	return NewPostHandler(store), store, p
}

func TestUpdatePost_WrongOwnerForbidden(t *testing.T) {
	t.Parallel()

	h, _, p := seededHandler(t)
	c, _ := postCtx(t, http.MethodPut, "/api/posts/1", `{"title":"Hijacked"}`, 2, "1")

	err := h.UpdatePost(c)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusForbidden, ae.Status)
	assert.True(t, ae.Operational)

	// The post is untouched.
	got, gerr := h.Posts.GetByID(context.Background(), p.ID)
	require.NoError(t, gerr)
	assert.Equal(t, "First Post", got.Title)
}

func TestUpdatePost_MissingIsNotFoundForAnyCaller(t *testing.T) {
	t.Parallel()

	h, _, _ := seededHandler(t)
	for _, caller := range []uint64{1, 2} {
		c, _ := postCtx(t, http.MethodPut, "/api/posts/99", `{"title":"New"}`, caller, "99")
		err := h.UpdatePost(c)
		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, http.StatusNotFound, ae.Status)
	}
}

func TestUpdatePost_OwnerMergesPartialFields(t *testing.T) {
	t.Parallel()

	h, _, p := seededHandler(t)
	c, rec := postCtx(t, http.MethodPut, "/api/posts/1", `{"content":"edited"}`, 1, "1")

	require.NoError(t, h.UpdatePost(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	got, err := h.Posts.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "First Post", got.Title) // untouched field kept
	assert.Equal(t, "edited", got.Content)
	assert.Equal(t, []string{"go"}, got.Tags)
}

func TestDeletePost_WrongOwnerForbidden(t *testing.T) {
	t.Parallel()

	h, store, p := seededHandler(t)
	c, _ := postCtx(t, http.MethodDelete, "/api/posts/1", "", 2, "1")

	err := h.DeletePost(c)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusForbidden, ae.Status)
	assert.Contains(t, store.posts, p.ID)
}

func TestDeletePost_OwnerSucceeds(t *testing.T) {
	t.Parallel()

	h, store, p := seededHandler(t)
	c, rec := postCtx(t, http.MethodDelete, "/api/posts/1", "", 1, "1")

	require.NoError(t, h.DeletePost(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, store.posts, p.ID)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Post deleted successfully", body["message"])
}

func TestCreatePost_CallerBecomesOwner(t *testing.T) {
	t.Parallel()

	h := NewPostHandler(newFakePosts())
	c, rec := postCtx(t, http.MethodPost, "/api/posts",
		`{"title":"Hello","content":"World","tags":["go","web"]}`, 5, "")

	require.NoError(t, h.CreatePost(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	got, err := h.Posts.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got.AuthorID)
}

func TestGetPost_Missing(t *testing.T) {
	t.Parallel()

	h := NewPostHandler(newFakePosts())
	c, _ := postCtx(t, http.MethodGet, "/api/posts/1", "", 0, "1")

	err := h.GetPost(c)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusNotFound, ae.Status)
}

func TestListPosts_Pagination(t *testing.T) {
	t.Parallel()

	store := newFakePosts()
	for i := 0; i < 25; i++ {
		_, err := store.Create(context.Background(), 1, "Post", "body", nil)
		require.NoError(t, err)
	}
	h := NewPostHandler(store)

	c, rec := postCtx(t, http.MethodGet, "/api/posts?page=2&limit=10", "", 0, "")
	require.NoError(t, h.ListPosts(c))

	var body struct {
		Status string `json:"status"`
		Data   struct {
			Posts      []json.RawMessage `json:"posts"`
			Pagination struct {
				CurrentPage int `json:"currentPage"`
				TotalPages  int `json:"totalPages"`
				Limit       int `json:"limit"`
				TotalItems  int `json:"totalItems"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Len(t, body.Data.Posts, 10)
	assert.Equal(t, 2, body.Data.Pagination.CurrentPage)
	assert.Equal(t, 3, body.Data.Pagination.TotalPages)
	assert.Equal(t, 25, body.Data.Pagination.TotalItems)
}
