package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-post-service/internal/apperr"
	"github.com/iliyamo/blog-post-service/internal/config"
	"github.com/iliyamo/blog-post-service/internal/queue"
	"github.com/iliyamo/blog-post-service/internal/repository"
	queue_publisher "github.com/iliyamo/blog-post-service/internal/service"
	"github.com/iliyamo/blog-post-service/internal/utils"
)

// AuthHandler bundles dependencies for credential issuance endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAuthHandler(cfg config.Config, users UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user and returns a token immediately. The duplicate
// pre-check gives a friendly message; the unique index behind ErrDuplicate is
// what actually guarantees uniqueness under concurrency.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
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

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return apperr.Internal(err)
	}

	user, err := h.Users.Create(ctx, req.Username, req.Email, &hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.BadRequest("User with this email or username already exists")
		}
		return apperr.Internal(err)
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		return apperr.Internal(err)
	}

	go func() {
		_ = queue_publisher.PublishActivity(context.Background(), queue.ActivityEvent{
			Type:   queue.EventUserRegistered,
			UserID: user.ID,
			Detail: "username=" + user.Username,
		})
	}()

	return success(c, http.StatusCreated, echo.Map{
		"user":  toUserJSON(user),
		"token": token,
	})
}

// Login verifies credentials and returns a fresh token. Unknown email, wrong
// password and passwordless accounts all yield the same 401 so the response
// does not reveal which part failed.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.Unauthorized("Invalid credentials")
		}
		return apperr.Internal(err)
	}
	if user.PasswordHash == nil || !utils.VerifyPassword(*user.PasswordHash, req.Password) {
		return apperr.Unauthorized("Invalid credentials")
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		return apperr.Internal(err)
	}

	return success(c, http.StatusOK, echo.Map{
		"user":  toUserJSON(user),
		"token": token,
	})
}

func (h *AuthHandler) issueToken(userID uint64) (string, error) {
	ttl := time.Duration(h.Cfg.TokenTTLHrs) * time.Hour
	at, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, ttl)
	if err != nil {
		return "", err
	}
	return at.Token, nil
}
