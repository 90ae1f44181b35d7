package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/marketbay/order-system/internal/token"
)

// Context keys populated by Auth.
const (
	CtxSubject = "subject"
	CtxEmail   = "email"
)

// Auth verifies the bearer token against the credential authority and injects
// the subject claims into context. Verification is a pure signature/expiry
// check with no store lookup; business-level authorization (roles, ownership)
// stays with the services.
func Auth(authority *token.Authority) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := BearerToken(c.Request().Header.Get("Authorization"))
			if err != nil {
				return err
			}

			claims, err := authority.Verify(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
			}

			c.Set(CtxSubject, claims.Subject)
			c.Set(CtxEmail, claims.Email)

			return next(c)
		}
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}
