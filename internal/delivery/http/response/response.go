// Package response holds the JSON envelope used for every error reply.
// Successful replies keep the plain shapes clients already consume ({task}, {tasks}, {token, user}).
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response unified API error structure
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`    // HTTP status code
	Message string     `json:"message"` // User-friendly message
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`    // Business error code, e.g., "TASK_NOT_FOUND"
	Details string `json:"details"` // Detailed error description
}

// Error error response
func Error(c echo.Context, statusCode int, errorCode string, message string, details string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, Response{
		Success: false,
		Code:    statusCode,
		Message: message,
		Error: &ErrorInfo{
			Code:    errorCode,
			Details: details,
		},
	})
}

// Status is the body of the health endpoint.
type Status struct {
	Status string `json:"status"`
}

// Message is a bare confirmation body such as {"message": "Task deleted"}.
type Message struct {
	Message string `json:"message"`
}
