package middleware

import (
	"strconv"
	"time"

	"notegrid/internal/metrics"

	"github.com/labstack/echo/v4"
)

// Metrics records request counts and latencies per route.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				}
			}

			method := c.Request().Method
			path := c.Path()
			code := strconv.Itoa(status)
			metrics.HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, path, code).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
