// Package response defines the uniform JSON envelope every store operation
// returns and the gateway relays:
//
//	{ "success": bool, "data": ... | null, "error": {"code","message"} | null }
package response

import "github.com/labstack/echo/v4"

// ErrorDetail is the machine-readable error half of the envelope.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the canonical API response body.
type Envelope struct {
	Success bool         `json:"success"`
	Data    any          `json:"data"`
	Error   *ErrorDetail `json:"error"`
}

// Stable error codes. The gateway never rewrites these; stores own them.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTooManyAttempts    = "TOO_MANY_ATTEMPTS"
	CodeAccessDenied       = "ACCESS_DENIED"
	CodeAdminRequired      = "ADMIN_REQUIRED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeOrderNotFound      = "ORDER_NOT_FOUND"
	CodeEmailTaken         = "EMAIL_ALREADY_EXISTS"
	CodeInvalidStatus      = "INVALID_STATUS_CHANGE"
	CodeAlreadyCancelled   = "ORDER_ALREADY_CANCELLED"
	CodeCancelCompleted    = "CANNOT_CANCEL_COMPLETED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
)

// OK writes a success envelope with the given HTTP status.
func OK(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// Fail writes a failure envelope with the given HTTP status and error code.
func Fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, Envelope{Success: false, Error: &ErrorDetail{Code: code, Message: message}})
}
