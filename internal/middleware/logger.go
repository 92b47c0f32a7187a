package middleware

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestLogger logs one line per request with a generated request id,
// method, path, response status and duration. The id is also echoed in the
// X-Request-ID header so clients can correlate reports with server logs.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			id := uuid.NewString()
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			err := next(c)
			if err != nil {
				// Let the central error handler render first so the logged
				// status matches what the client received.
				c.Error(err)
			}

			req := c.Request()
			log.Printf("[%s] %s %s -> %d (%s)",
				id, req.Method, req.URL.Path, c.Response().Status, time.Since(start))
			return nil
		}
	}
}
