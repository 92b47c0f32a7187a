package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-post-service/internal/apperr"
)

// NewHTTPErrorHandler returns the single place where failures become HTTP
// responses. Handlers and middleware only signal typed errors; classification
// and rendering happen here.
//
// Operational errors render {"status":"fail","message":...} (plus "errors"
// for validation) with their own status code. Anything else is a 500 whose
// detail never reaches the client unless verbose mode is explicitly enabled
// for the deployment. Every error is logged exactly once with method and
// path; non-operational errors are logged with full detail regardless of the
// client-visible verbosity.
func NewHTTPErrorHandler(verbose bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ae := classify(err)
		req := c.Request()
		if ae.Operational {
			log.Printf("%s %s -> %d: %s", req.Method, req.URL.Path, ae.Status, ae.Message)
		} else {
			log.Printf("%s %s -> %d: unexpected error: %v", req.Method, req.URL.Path, ae.Status, ae.Err)
		}

		body := echo.Map{
			"status":  statusWord(ae.Status),
			"message": ae.Message,
		}
		if len(ae.Violations) > 0 {
			body["errors"] = ae.Violations
		}
		if !ae.Operational {
			if verbose {
				body["error"] = fmt.Sprint(ae.Err)
			} else {
				body = echo.Map{"status": "error", "message": "Something went wrong!"}
			}
		}

		if err := c.JSON(ae.Status, body); err != nil {
			log.Printf("error handler: writing response failed: %v", err)
		}
	}
}

// classify folds any error into the closed taxonomy. Typed *apperr.Error
// values pass through; echo's own HTTP errors (unknown route, method not
// allowed, malformed binds) are anticipated client conditions; everything
// else is an unexpected fault.
func classify(err error) *apperr.Error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		return apperr.New(he.Code, fmt.Sprint(he.Message))
	}
	return apperr.Internal(err)
}

// statusWord maps a status code to the envelope's status field: "fail" for
// client errors, "error" for server faults.
func statusWord(code int) string {
	if code < http.StatusInternalServerError {
		return "fail"
	}
	return "error"
}
