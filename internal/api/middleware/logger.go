package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestLogger writes one zerolog line per request, at a level chosen from
// the response status. Query strings are never logged since they carry
// record keys.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			code := res.Status

			event := log.Info()
			switch {
			case code >= http.StatusInternalServerError:
				event = log.Error()
			case code >= http.StatusBadRequest:
				event = log.Warn()
			}

			event.
				Int("status", code).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("ip", c.RealIP()).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Dur("latency", time.Since(start)).
				Str("user_agent", req.UserAgent()).
				Msg("http request")

			return nil
		}
	}
}
