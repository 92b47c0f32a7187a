package handler // handler defines http handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-post-service/internal/apperr"
	"github.com/iliyamo/blog-post-service/internal/model"
)

// UserStore is the user persistence surface the handlers need. It is
// satisfied by *repository.UserRepo and by in-memory fakes in tests.
type UserStore interface {
	Create(ctx context.Context, username, email string, passwordHash *string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Taken(ctx context.Context, username, email string, excludeID uint64) (bool, error)
	Update(ctx context.Context, id uint64, username, email *string) (model.User, error)
	Delete(ctx context.Context, id uint64) error
}

// PostStore is the post persistence surface, satisfied by
// *repository.PostRepo.
type PostStore interface {
	Create(ctx context.Context, authorID uint64, title, content string, tags []string) (model.Post, error)
	GetByID(ctx context.Context, id uint64) (model.Post, error)
	ListPage(ctx context.Context, offset, limit int) ([]model.Post, int, error)
	ListByAuthor(ctx context.Context, authorID uint64) ([]model.Post, error)
	Update(ctx context.Context, id uint64, title, content string, tags []string) (model.Post, error)
	Delete(ctx context.Context, id uint64) error
	DeleteByAuthor(ctx context.Context, authorID uint64) error
}

// userJSON is the client-facing user shape. The password hash is never
// serialized.
type userJSON struct {
	UserID    uint64    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type postJSON struct {
	PostID     uint64    `json:"post_id"`
	AuthorID   uint64    `json:"author_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toUserJSON(u model.User) userJSON {
	return userJSON{UserID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toPostJSON(p model.Post) postJSON {
	return postJSON{
		PostID: p.ID, AuthorID: p.AuthorID, Title: p.Title, Content: p.Content,
		Tags: p.Tags, AuthorName: p.AuthorName, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

// success renders the standard success envelope with a data payload.
func success(c echo.Context, code int, data any) error {
	return c.JSON(code, echo.Map{"status": "success", "data": data})
}

// confirm renders a success envelope carrying only a message, used by delete
// operations.
func confirm(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": message})
}

// callerID extracts the verified user id attached by the auth middleware.
func callerID(c echo.Context) (uint64, error) {
	if id, ok := c.Get("user_id").(uint64); ok && id != 0 {
		return id, nil
	}
	return 0, apperr.Unauthorized("No token provided")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.BadRequest("invalid " + name)
	}
	return id, nil
}

// reqCtx bounds a storage call to the teacher default of five seconds.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
