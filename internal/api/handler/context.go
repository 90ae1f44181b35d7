package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketbay/order-system/internal/api/middleware"
)

// subjectID extracts the acting user id injected by the Auth middleware and
// fast-fails before any service call when it is absent (the route was wired
// without the middleware, or the token carried no subject).
func subjectID(c echo.Context) (string, error) {
	sub, _ := c.Get(middleware.CtxSubject).(string)
	if sub == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return sub, nil
}
