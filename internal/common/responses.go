package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Fail sends the standard {success:false, message} error body.
func Fail(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// FailLimitReached additionally carries the structured limitReached flag so
// calling UIs can offer an upgrade path without parsing message text.
func FailLimitReached(c echo.Context, message string) error {
	return c.JSON(http.StatusForbidden, map[string]interface{}{
		"success":      false,
		"message":      message,
		"limitReached": true,
	})
}

// OK sends {success:true, message, data}.
func OK(c echo.Context, status int, message string, data interface{}) error {
	body := map[string]interface{}{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(status, body)
}

// OKList sends {success:true, data, count}.
func OKList(c echo.Context, data interface{}, count int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
		"count":   count,
	})
}
