package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/ports"
)

// UserHandler serves user management (admin) and self profile edits.
type UserHandler struct {
	sessions ports.Sessions
}

func NewUserHandler(sessions ports.Sessions) *UserHandler {
	return &UserHandler{sessions: sessions}
}

// List returns every user. Admin only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}
	users, err := ctrl.Users()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Create adds a user profile and, when a password is given, its credential.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      userRequest  true  "User"
// @Success      201   {array}   userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req userRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}

	if err := ctrl.AddUser(c.Request().Context(), toDomainUser("", req)); err != nil {
		return err
	}
	return h.respondUsers(c, ctrl, http.StatusCreated)
}

// Update edits a user. Admin only.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "User id"
// @Param        body  body      userRequest  true  "User"
// @Success      200   {array}   userResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req userRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}

	if err := ctrl.UpdateUser(c.Request().Context(), toDomainUser(c.Param("id"), req)); err != nil {
		return err
	}
	return h.respondUsers(c, ctrl, http.StatusOK)
}

// Delete removes a user. Tickets and comments keep their references.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}
	if err := ctrl.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateProfile edits the current user's own name, department and avatar.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Profile"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req profileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}
	me, err := currentUser(ctrl)
	if err != nil {
		return err
	}

	err = ctrl.UpdateUser(c.Request().Context(), domain.User{
		ID:         me.ID,
		Name:       req.Name,
		Email:      me.Email,
		Role:       me.Role,
		Department: req.Department,
		Avatar:     req.Avatar,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*ctrl.User()))
}

func (h *UserHandler) respondUsers(c echo.Context, ctrl ports.Controller, status int) error {
	users, err := ctrl.Users()
	if err != nil {
		return err
	}
	return c.JSON(status, toUserResponses(users))
}

func toDomainUser(id string, req userRequest) domain.User {
	return domain.User{
		ID:         id,
		Name:       req.Name,
		Email:      req.Email,
		Role:       domain.Role(req.Role),
		Department: req.Department,
		Avatar:     req.Avatar,
		Password:   req.Password,
	}
}
