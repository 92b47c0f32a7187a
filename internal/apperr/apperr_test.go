package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cases := []struct {
		name        string
		err         *Error
		status      int
		operational bool
	}{
		{"bad request", BadRequest("nope"), http.StatusBadRequest, true},
		{"unauthorized", Unauthorized("nope"), http.StatusUnauthorized, true},
		{"forbidden", Forbidden("nope"), http.StatusForbidden, true},
		{"not found", NotFound("nope"), http.StatusNotFound, true},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.Status)
			assert.Equal(t, tc.operational, tc.err.Operational)
		})
	}
}

func TestValidationCarriesViolations(t *testing.T) {
	v := []Violation{
		{Field: "title", Message: "too short", RejectedValue: ""},
		{Field: "tags", Message: "too many"},
	}
	err := Validation(v)

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, err.Operational)
	assert.Equal(t, "Validation failed", err.Message)
	assert.Len(t, err.Violations, 2)
}

func TestInternalWrapsCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Internal(cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk on fire")

	var ae *Error
	require.ErrorAs(t, error(err), &ae)
	assert.False(t, ae.Operational)
}
