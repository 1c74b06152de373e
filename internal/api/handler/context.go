package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/api/middleware"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/ports"
)

// sessionController resolves the controller of the authenticated request.
// The token must have been placed in the context by the Auth middleware.
func sessionController(c echo.Context, sessions ports.Sessions) (ports.Controller, error) {
	token, _ := c.Get(middleware.CtxToken).(string)
	if token == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	ctrl, err := sessions.Open(c.Request().Context(), token)
	if err != nil {
		return nil, err
	}
	return ctrl, nil
}

// bindAndValidate decodes the body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// currentUser returns the identity behind ctrl or ErrUnauthenticated.
func currentUser(ctrl ports.Controller) (*domain.User, error) {
	u := ctrl.User()
	if u == nil {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}
