package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/api/middleware"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/ports"
)

type AuthHandler struct {
	sessions ports.Sessions
}

func NewAuthHandler(sessions ports.Sessions) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Login authenticates a user and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctrl := h.sessions.New()
	sess, err := ctrl.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.sessions.Bind(ctrl, sess.Token)

	return c.JSON(http.StatusOK, sessionResponse{Token: sess.Token, State: toStateResponse(ctrl.Snapshot())})
}

// Logout ends the session.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}
	token, _ := c.Get(middleware.CtxToken).(string)

	if err := ctrl.Logout(c.Request().Context()); err != nil {
		return err
	}
	h.sessions.Drop(token)
	return c.NoContent(http.StatusNoContent)
}

// Session restores the state for an optional bearer token. A fragment
// carrying a recovery marker always routes to the password reset view.
//
// @Summary      Restore session
// @Tags         auth
// @Produce      json
// @Param        fragment  query     string  false  "URL fragment of the current page"
// @Success      200       {object}  sessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	fragment := c.QueryParam("fragment")
	token, tokenErr := middleware.BearerToken(c.Request())

	if domain.IsRecoveryFragment(fragment) || tokenErr != nil {
		ctrl := h.sessions.New()
		if err := ctrl.RestoreSession(c.Request().Context(), "", fragment); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, sessionResponse{State: toStateResponse(ctrl.Snapshot())})
	}

	ctrl, err := h.sessions.Open(c.Request().Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return c.JSON(http.StatusOK, sessionResponse{State: stateResponse{View: string(domain.ViewLogin), Tickets: []ticketResponse{}}})
		}
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Token: token, State: toStateResponse(ctrl.Snapshot())})
}

// Recover sends a password recovery link.
//
// @Summary      Request password reset
// @Tags         auth
// @Accept       json
// @Param        body  body  recoverRequest  true  "Account email"
// @Success      202
// @Failure      400   {object}  errorResponse
// @Router       /auth/recover [post]
func (h *AuthHandler) Recover(c echo.Context) error {
	var req recoverRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.sessions.New().RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}

// ResetPassword sets a new password using a recovery token.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Recovery token and new password"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	token := req.Token
	if token == "" {
		token = domain.RecoveryToken(req.Fragment)
	}

	ctrl := h.sessions.New()
	if err := ctrl.ResetPassword(c.Request().Context(), token, req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{State: toStateResponse(ctrl.Snapshot())})
}
