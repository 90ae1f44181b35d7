package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/marketbay/order-system/internal/api/response"
	"github.com/marketbay/order-system/internal/core/ports"
)

// UserHandler handles profile and admin user-listing requests.
type UserHandler struct {
	identity ports.IdentityService
}

func NewUserHandler(identity ports.IdentityService) *UserHandler {
	return &UserHandler{identity: identity}
}

// Me returns the calling user's profile.
//
// @Summary      Get current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Router       /v1/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	callerID, err := subjectID(c)
	if err != nil {
		return err
	}

	user, err := h.identity.GetProfile(c.Request().Context(), callerID)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, user)
}

// UpdateMe updates the calling user's name and/or email.
//
// @Summary      Update current user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile changes"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      409   {object}  response.Envelope
// @Router       /v1/users/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	callerID, err := subjectID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.identity.UpdateProfile(c.Request().Context(), callerID, ports.ProfileUpdate{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, user)
}

// List returns a page of all users. Admin only; the role is re-read from the
// store by the service, not taken from the token.
//
// @Summary      List all users (admin)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Items per page (max 100)"
// @Param        search     query     string  false  "Substring match on name or email"
// @Param        role       query     string  false  "Exact role filter"
// @Success      200        {object}  response.Envelope
// @Failure      401        {object}  response.Envelope
// @Failure      403        {object}  response.Envelope
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	callerID, err := subjectID(c)
	if err != nil {
		return err
	}

	page, err := h.identity.ListUsers(c.Request().Context(), callerID, ports.ListUsersInput{
		Search:    c.QueryParam("search"),
		Role:      c.QueryParam("role"),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "page_size", 10),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	})
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, page)
}

// queryInt parses an integer query parameter, falling back to def on absence
// or garbage. Range clamping happens in the listing engine.
func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
