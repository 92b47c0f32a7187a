package middleware // middleware contains reusable HTTP middleware functions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-post-service/internal/apperr"
	"github.com/iliyamo/blog-post-service/internal/model"
	"github.com/iliyamo/blog-post-service/internal/repository"
	"github.com/iliyamo/blog-post-service/internal/utils"
)

// UserFinder is the slice of the user store the auth middleware needs for
// the identity-existence re-check.
type UserFinder interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// Auth returns middleware that gates protected routes. The steps are ordered
// and each is a distinct failure branch:
//
//  1. Authorization header absent or not "Bearer <token>" -> 401 no token.
//  2. Token fails verification (signature, payload or expiry) -> 401 invalid
//     token; the cause is not distinguished externally.
//  3. Token subject no longer exists -> 401 invalid token. Deleting an
//     account is the only way to invalidate its tokens before expiry.
//  4. Success -> the verified user id is attached to the request context
//     under "user_id". Nothing else is mutated.
func Auth(secret string, users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return apperr.Unauthorized("No token provided")
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			uid, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return apperr.Unauthorized("Invalid token")
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			if _, err := users.GetByID(ctx, uid); err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					return apperr.Unauthorized("Invalid token")
				}
				return apperr.Internal(err)
			}

			c.Set("user_id", uid)
			return next(c)
		}
	}
}
