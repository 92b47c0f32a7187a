package validate

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/blog-post-service/internal/apperr"
)

func fieldsWithViolations(vs []apperr.Violation) map[string]int {
	m := map[string]int{}
	for _, v := range vs {
		m[v.Field]++
	}
	return m
}

func TestCreatePostAccumulatesAllViolations(t *testing.T) {
	t.Parallel()

	// Empty title, oversized content and a bad tag must each contribute a
	// violation in a single pass.
	body := map[string]any{
		"title":   "",
		"content": strings.Repeat("x", 10001),
		"tags":    []any{""},
	}
	vs := CreatePost().Validate(body)

	require.GreaterOrEqual(t, len(vs), 3)
	byField := fieldsWithViolations(vs)
	assert.NotZero(t, byField["title"])
	assert.NotZero(t, byField["content"])
	assert.NotZero(t, byField["tags"])
}

func TestRegisterRequiredFields(t *testing.T) {
	t.Parallel()

	vs := Register().Validate(map[string]any{})
	require.Len(t, vs, 3)
	byField := fieldsWithViolations(vs)
	assert.Equal(t, 1, byField["username"])
	assert.Equal(t, 1, byField["email"])
	assert.Equal(t, 1, byField["password"])
}

func TestRegisterAcceptsValidInput(t *testing.T) {
	t.Parallel()

	vs := Register().Validate(map[string]any{
		"username": "alice",
		"email":    "alice@x.com",
		"password": "Password123!",
	})
	assert.Empty(t, vs)
}

func TestPasswordPolicy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		password string
		ok       bool
	}{
		{"Password123!", true},
		{"password123!", false}, // no uppercase
		{"PASSWORD123!", false}, // no lowercase
		{"Passwordabc!", false}, // no digit
		{"Password1234", false}, // no special
		{"Pass-word12!", false}, // '-' outside allowed set
		{"Pw1!", false},         // too short
	}
	for _, tc := range cases {
		vs := Register().Validate(map[string]any{
			"username": "alice",
			"email":    "alice@x.com",
			"password": tc.password,
		})
		if tc.ok {
			assert.Empty(t, vs, "password %q", tc.password)
		} else {
			assert.NotEmpty(t, vs, "password %q", tc.password)
		}
	}
}

func TestEmailShape(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{"not-an-email", "a@b", "a b@c.com", ""} {
		vs := Login().Validate(map[string]any{"email": bad, "password": "x"})
		assert.NotEmpty(t, vs, "email %q", bad)
	}
	vs := Login().Validate(map[string]any{"email": "ok@example.org", "password": "x"})
	assert.Empty(t, vs)
}

func TestUpdatePostOptionalFields(t *testing.T) {
	t.Parallel()

	// Absent fields are fine on update.
	assert.Empty(t, UpdatePost().Validate(map[string]any{}))

	// Present fields are still checked.
	vs := UpdatePost().Validate(map[string]any{"title": "bad<title>"})
	assert.NotEmpty(t, vs)
}

func TestTagsRules(t *testing.T) {
	t.Parallel()

	ok := map[string]any{
		"title":   "Hello",
		"content": "body",
		"tags":    []any{"go", "web-dev"},
	}
	assert.Empty(t, CreatePost().Validate(ok))

	tooMany := map[string]any{
		"title":   "Hello",
		"content": "body",
		"tags":    []any{"a", "b", "c", "d", "e", "f"},
	}
	vs := CreatePost().Validate(tooMany)
	require.NotEmpty(t, vs)
	assert.Equal(t, "tags", vs[0].Field)
}

func TestViolationCarriesRejectedValue(t *testing.T) {
	t.Parallel()

	vs := Register().Validate(map[string]any{
		"username": "ab", // too short
		"email":    "alice@x.com",
		"password": "Password123!",
	})
	require.Len(t, vs, 1)
	assert.Equal(t, "username", vs[0].Field)
	assert.Equal(t, "ab", vs[0].RejectedValue)
}

func TestMiddlewareFailsOnceWithFullList(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"ab"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Middleware(Register())(func(c echo.Context) error {
		called = true
		return nil
	})
	err := h(c)

	require.Error(t, err)
	assert.False(t, called)

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	// ab fails both username checks; email and password are missing.
	assert.GreaterOrEqual(t, len(ae.Violations), 3)
}

func TestMiddlewarePassesAndPreservesBody(t *testing.T) {
	t.Parallel()

	e := echo.New()
	payload := `{"username":"alice","email":"alice@x.com","password":"Password123!"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var bound struct {
		Username string `json:"username"`
	}
	h := Middleware(Register())(func(c echo.Context) error {
		return c.Bind(&bound)
	})
	require.NoError(t, h(c))
	assert.Equal(t, "alice", bound.Username)
}
