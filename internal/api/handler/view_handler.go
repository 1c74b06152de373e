package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/ports"
)

// ViewHandler serves the session state and the read models derived from it.
type ViewHandler struct {
	sessions ports.Sessions
	loc      *time.Location
	now      func() time.Time
}

// NewViewHandler evaluates calendar days in loc; nil means UTC.
func NewViewHandler(sessions ports.Sessions, loc *time.Location) *ViewHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ViewHandler{sessions: sessions, loc: loc, now: time.Now}
}

// State returns the full session state.
//
// @Summary      Current session state
// @Tags         views
// @Produce      json
// @Security     BearerAuth
// @Param        reload  query     bool  false  "Reload tickets and users first"
// @Success      200     {object}  stateResponse
// @Failure      401     {object}  errorResponse
// @Router       /v1/state [get]
func (h *ViewHandler) State(c echo.Context) error {
	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}
	if reload, _ := strconv.ParseBool(c.QueryParam("reload")); reload {
		ctrl.Reload(c.Request().Context())
	}
	return c.JSON(http.StatusOK, toStateResponse(ctrl.Snapshot()))
}

// Navigate switches the active view and clears the ticket selection.
//
// @Summary      Navigate
// @Tags         views
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      navigateRequest  true  "Target view"
// @Success      200   {object}  stateResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/navigate [post]
func (h *ViewHandler) Navigate(c echo.Context) error {
	var req navigateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}
	user, err := currentUser(ctrl)
	if err != nil {
		return err
	}
	view := domain.View(req.View)
	if view == domain.ViewUsers && user.Role != domain.RoleAdmin {
		return domain.ErrAccessDenied
	}

	ctrl.Navigate(view)
	return c.JSON(http.StatusOK, toStateResponse(ctrl.Snapshot()))
}

// Dashboard returns the aggregate counts over the loaded tickets.
//
// @Summary      Dashboard summary
// @Tags         views
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/dashboard [get]
func (h *ViewHandler) Dashboard(c echo.Context) error {
	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDashboardResponse(domain.Summarize(ctrl.Snapshot().Tickets)))
}

// Calendar buckets the loaded tickets by creation day.
//
// @Summary      Ticket calendar
// @Tags         views
// @Produce      json
// @Security     BearerAuth
// @Param        year   query     int  false  "Year (defaults to the current year)"
// @Param        month  query     int  false  "Month 1-12 (defaults to the current month)"
// @Success      200    {object}  calendarResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Router       /v1/calendar [get]
func (h *ViewHandler) Calendar(c echo.Context) error {
	now := h.now().In(h.loc)
	year, month := now.Year(), int(now.Month())

	if v := c.QueryParam("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "year must be a positive integer")
		}
		year = y
	}
	if v := c.QueryParam("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return echo.NewHTTPError(http.StatusBadRequest, "month must be between 1 and 12")
		}
		month = m
	}

	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}
	cal := domain.BucketMonth(ctrl.Snapshot().Tickets, year, time.Month(month), h.loc)
	return c.JSON(http.StatusOK, toCalendarResponse(cal))
}
