package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/blog-post-service/internal/apperr"
	"github.com/iliyamo/blog-post-service/internal/model"
	"github.com/iliyamo/blog-post-service/internal/repository"
	"github.com/iliyamo/blog-post-service/internal/utils"
)

// fakeUsers resolves ids from a fixed set, as the live repository would.
type fakeUsers struct {
	known map[uint64]model.User
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	if u, ok := f.known[id]; ok {
		return u, nil
	}
	return model.User{}, repository.ErrUserNotFound
}

const testSecret = "test-secret"

func runAuth(t *testing.T, users UserFinder, header string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Auth(testSecret, users)(func(c echo.Context) error { return nil })
	return c, h(c)
}

func requireUnauthorized(t *testing.T, err error, message string) {
	t.Helper()
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.True(t, ae.Operational)
	assert.Equal(t, message, ae.Message)
}

func TestAuth_MissingHeader(t *testing.T) {
	t.Parallel()

	_, err := runAuth(t, &fakeUsers{}, "")
	requireUnauthorized(t, err, "No token provided")
}

func TestAuth_NotBearer(t *testing.T) {
	t.Parallel()

	_, err := runAuth(t, &fakeUsers{}, "Basic abc123")
	requireUnauthorized(t, err, "No token provided")
}

func TestAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	_, err := runAuth(t, &fakeUsers{}, "Bearer not.a.jwt")
	requireUnauthorized(t, err, "Invalid token")
}

func TestAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	at, err := utils.NewAccessToken(testSecret, 1, -time.Minute)
	require.NoError(t, err)

	users := &fakeUsers{known: map[uint64]model.User{1: {ID: 1}}}
	_, err = runAuth(t, users, "Bearer "+at.Token)
	requireUnauthorized(t, err, "Invalid token")
}

func TestAuth_DeletedIdentity(t *testing.T) {
	t.Parallel()

	// Valid, unexpired token whose subject no longer exists: the only
	// pre-expiry invalidation path.
	at, err := utils.NewAccessToken(testSecret, 42, time.Hour)
	require.NoError(t, err)

	_, err = runAuth(t, &fakeUsers{}, "Bearer "+at.Token)
	requireUnauthorized(t, err, "Invalid token")
}

func TestAuth_Success(t *testing.T) {
	t.Parallel()

	at, err := utils.NewAccessToken(testSecret, 7, time.Hour)
	require.NoError(t, err)

	users := &fakeUsers{known: map[uint64]model.User{7: {ID: 7, Username: "alice"}}}
	c, err := runAuth(t, users, "Bearer "+at.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), c.Get("user_id"))
}
