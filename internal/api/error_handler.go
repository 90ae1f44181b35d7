package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/marketbay/order-system/internal/api/response"
	"github.com/marketbay/order-system/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and stable error code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the uniform {success, data, error} envelope on every failure.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, msg := resolveError(err, log, c)
		_ = response.Fail(c, status, code, msg)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, string) {
	// Echo's own errors: bind failures, validation rejections, router 404s.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		switch he.Code {
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return he.Code, response.CodeValidation, msg
		case http.StatusUnauthorized:
			return he.Code, response.CodeInvalidToken, msg
		case http.StatusNotFound:
			return he.Code, response.CodeNotFound, "route not found"
		default:
			return he.Code, response.CodeInternal, msg
		}
	}

	// Known domain errors map to deterministic statuses and codes.
	switch {
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, response.CodeInvalidToken, "could not validate credentials"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, response.CodeInvalidCredentials, "invalid email or password"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, response.CodeTooManyAttempts, "too many login attempts, try again later"
	case errors.Is(err, domain.ErrAdminRequired):
		return http.StatusForbidden, response.CodeAdminRequired, "admin access required"
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden, response.CodeAccessDenied, "you don't have permission to access this resource"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, response.CodeUserNotFound, "user not found"
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, response.CodeOrderNotFound, "order not found"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, response.CodeEmailTaken, "user with this email already exists"
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return http.StatusUnprocessableEntity, response.CodeAlreadyCancelled, "order is already cancelled"
	case errors.Is(err, domain.ErrCancelCompleted):
		return http.StatusUnprocessableEntity, response.CodeCancelCompleted, "cannot cancel completed order"
	case errors.Is(err, domain.ErrInvalidStatusChange), errors.Is(err, domain.ErrStaleStatus):
		return http.StatusUnprocessableEntity, response.CodeInvalidStatus, "invalid status change"
	case errors.Is(err, domain.ErrEmptyOrder):
		return http.StatusBadRequest, response.CodeValidation, "items: order must contain at least one item"
	case errors.Is(err, domain.ErrInvalidItem):
		return http.StatusBadRequest, response.CodeValidation, "items: quantity must be positive and price positive with at most 2 decimal places"
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, response.CodeValidation, "roles: must be one of: admin client"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, response.CodeInternal, "internal server error"
}
