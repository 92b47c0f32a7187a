// Package validate implements declarative request validation. Each endpoint
// declares a RuleSet describing its fields and their predicates; the rule set
// runs as route middleware before the handler. Every field's predicates are
// evaluated regardless of earlier failures so a rejected request reports the
// complete violation list, not just the first.
package validate

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-post-service/internal/apperr"
)

// Check is a single predicate over a decoded JSON value. Message is attached
// to the violation when the predicate fails.
type Check struct {
	Fn      func(v any) bool
	Message string
}

// Field binds a JSON body field to its checks. Optional fields are skipped
// when absent or null; required fields produce a violation instead.
type Field struct {
	Name     string
	Optional bool
	Checks   []Check
}

// RuleSet is the full declarative rule list for one endpoint.
type RuleSet struct {
	Fields []Field
}

// Validate evaluates every field against the decoded body and returns all
// accumulated violations. A nil result means the request may proceed.
func (rs RuleSet) Validate(body map[string]any) []apperr.Violation {
	var out []apperr.Violation
	for _, f := range rs.Fields {
		v, present := body[f.Name]
		if !present || v == nil {
			if f.Optional {
				continue
			}
			out = append(out, apperr.Violation{
				Field:   f.Name,
				Message: f.Name + " is required",
			})
			continue
		}
		for _, chk := range f.Checks {
			if !chk.Fn(v) {
				out = append(out, apperr.Violation{
					Field:         f.Name,
					Message:       chk.Message,
					RejectedValue: v,
				})
			}
		}
	}
	return out
}

// Middleware returns an Echo middleware that validates the JSON body against
// the rule set before the handler runs. The body is re-buffered so the
// handler can still bind it.
func Middleware(rs RuleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := io.ReadAll(c.Request().Body)
			if err != nil {
				return apperr.BadRequest("invalid request body")
			}
			c.Request().Body = io.NopCloser(bytes.NewReader(raw))

			body := map[string]any{}
			if len(bytes.TrimSpace(raw)) > 0 {
				if err := json.Unmarshal(raw, &body); err != nil {
					return apperr.BadRequest("invalid JSON body")
				}
			}
			if violations := rs.Validate(body); len(violations) > 0 {
				return apperr.Validation(violations)
			}
			return next(c)
		}
	}
}

// ----- predicates -----

// emailRe accepts the usual local@domain.tld shape. Deliberately simple; the
// authoritative uniqueness check happens at the storage layer.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// StrLength requires a string value whose rune length is within [min, max].
func StrLength(min, max int, msg string) Check {
	return Check{
		Fn: func(v any) bool {
			s, ok := v.(string)
			if !ok {
				return false
			}
			n := len([]rune(s))
			return n >= min && n <= max
		},
		Message: msg,
	}
}

// Matches requires a string fully matching the pattern.
func Matches(pattern, msg string) Check {
	re := regexp.MustCompile("^(?:" + pattern + ")$")
	return Check{
		Fn: func(v any) bool {
			s, ok := v.(string)
			return ok && re.MatchString(s)
		},
		Message: msg,
	}
}

// Email requires a plausible email address.
func Email(msg string) Check {
	return Check{
		Fn: func(v any) bool {
			s, ok := v.(string)
			return ok && emailRe.MatchString(strings.TrimSpace(s))
		},
		Message: msg,
	}
}

// Password enforces the registration password policy: at least one lowercase
// letter, one uppercase letter, one digit and one special character from
// @$!%*?&, with no other characters allowed. Go's regexp has no lookaheads,
// so the classes are checked individually.
func Password(msg string) Check {
	allowed := regexp.MustCompile(`^[A-Za-z\d@$!%*?&]+$`)
	return Check{
		Fn: func(v any) bool {
			s, ok := v.(string)
			if !ok || !allowed.MatchString(s) {
				return false
			}
			var lower, upper, digit, special bool
			for _, r := range s {
				switch {
				case r >= 'a' && r <= 'z':
					lower = true
				case r >= 'A' && r <= 'Z':
					upper = true
				case r >= '0' && r <= '9':
					digit = true
				case strings.ContainsRune("@$!%*?&", r):
					special = true
				}
			}
			return lower && upper && digit && special
		},
		Message: msg,
	}
}

// MaxItems requires an array value with at most n elements.
func MaxItems(n int, msg string) Check {
	return Check{
		Fn: func(v any) bool {
			arr, ok := v.([]any)
			return ok && len(arr) <= n
		},
		Message: msg,
	}
}

// EachMatches requires every array element to be a string matching the
// pattern and no longer than maxLen.
func EachMatches(pattern string, maxLen int, msg string) Check {
	re := regexp.MustCompile("^(?:" + pattern + ")$")
	return Check{
		Fn: func(v any) bool {
			arr, ok := v.([]any)
			if !ok {
				return false
			}
			for _, e := range arr {
				s, ok := e.(string)
				if !ok || len(s) > maxLen || !re.MatchString(s) {
					return false
				}
			}
			return true
		},
		Message: msg,
	}
}
