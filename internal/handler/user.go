package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-post-service/internal/apperr"
	"github.com/iliyamo/blog-post-service/internal/repository"
	"github.com/iliyamo/blog-post-service/internal/utils"
)

// UserHandler serves profile and user administration endpoints. All routes
// sit behind the auth middleware; ownership of the profile routes is
// implicit because they act on the caller's own id.
type UserHandler struct {
	Users      UserStore
	Posts      PostStore
	BcryptCost int
}

func NewUserHandler(users UserStore, posts PostStore, bcryptCost int) *UserHandler {
	return &UserHandler{Users: users, Posts: posts, BcryptCost: bcryptCost}
}

type updateProfileReq struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type createUserReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile returns the caller's own record.
func (h *UserHandler) Profile(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal(err)
	}
	return success(c, http.StatusOK, echo.Map{"user": toUserJSON(user)})
}

// UpdateProfile changes the caller's username and/or email. The uniqueness
// pre-check yields a friendly 400; the unique indexes remain authoritative.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	current, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal(err)
	}

	if req.Username != nil || req.Email != nil {
		username := current.Username
		if req.Username != nil {
			username = *req.Username
		}
		email := current.Email
		if req.Email != nil {
			email = strings.ToLower(strings.TrimSpace(*req.Email))
		}
		taken, err := h.Users.Taken(ctx, username, email, uid)
		if err != nil {
			return apperr.Internal(err)
		}
		if taken {
			return apperr.BadRequest("Email or username already taken")
		}
	}

	user, err := h.Users.Update(ctx, uid, req.Username, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.BadRequest("Email or username already taken")
		}
		return apperr.Internal(err)
	}
	return success(c, http.StatusOK, echo.Map{"user": toUserJSON(user)})
}

// DeleteProfile removes the caller's account and all posts it owns. All of
// the caller's outstanding tokens become invalid from this point on.
func (h *UserHandler) DeleteProfile(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	// Posts first, the foreign key requires it.
	if err := h.Posts.DeleteByAuthor(ctx, uid); err != nil {
		return apperr.Internal(err)
	}
	if err := h.Users.Delete(ctx, uid); err != nil {
		return apperr.Internal(err)
	}
	return confirm(c, "User deleted successfully")
}

// ListUsers returns every user.
func (h *UserHandler) ListUsers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	out := make([]userJSON, 0, len(users))
	for _, u := range users {
		out = append(out, toUserJSON(u))
	}
	return success(c, http.StatusOK, echo.Map{"users": out})
}

// GetUser returns one user by id.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal(err)
	}
	return success(c, http.StatusOK, echo.Map{"user": toUserJSON(user)})
}

// CreateUser is the administrative creation path. Password is optional; an
// account created without one cannot authenticate until it is given a hash
// out of band.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	ctx, cancel := reqCtx(c)
	defer cancel()

	taken, err := h.Users.Taken(ctx, req.Username, req.Email, 0)
	if err != nil {
		return apperr.Internal(err)
	}
	if taken {
		return apperr.BadRequest("User with this email or username already exists")
	}

	var hash *string
	if req.Password != "" {
		hashed, err := utils.HashPassword(req.Password, h.BcryptCost)
		if err != nil {
			return apperr.Internal(err)
		}
		hash = &hashed
	}

	user, err := h.Users.Create(ctx, req.Username, req.Email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.BadRequest("User with this email or username already exists")
		}
		return apperr.Internal(err)
	}
	return success(c, http.StatusCreated, echo.Map{"user": toUserJSON(user)})
}

// DeleteUser removes a user by id, posts first.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal(err)
	}
	if err := h.Posts.DeleteByAuthor(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	if err := h.Users.Delete(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	return confirm(c, "User deleted successfully")
}

// UserPosts returns every post owned by the given user, newest first.
func (h *UserHandler) UserPosts(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal(err)
	}
	posts, err := h.Posts.ListByAuthor(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	out := make([]postJSON, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostJSON(p))
	}
	return success(c, http.StatusOK, echo.Map{"posts": out})
}
