package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/ports"
)

const deliveryHistoryLimit = 50

// TicketHandler handles ticket intents for the current session.
type TicketHandler struct {
	sessions   ports.Sessions
	deliveries ports.DeliveryHistory
}

// NewTicketHandler builds the handler. deliveries may be nil when no
// delivery log is configured.
func NewTicketHandler(sessions ports.Sessions, deliveries ports.DeliveryHistory) *TicketHandler {
	return &TicketHandler{sessions: sessions, deliveries: deliveries}
}

// List filters the loaded tickets.
//
// @Summary      List tickets
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        filter  query     string  false  "pending (default), all, mine, unassigned or a status"
// @Param        q       query     string  false  "Search over title, code and requester"
// @Success      200     {object}  ticketListResponse
// @Failure      401     {object}  errorResponse
// @Router       /v1/tickets [get]
func (h *TicketHandler) List(c echo.Context) error {
	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}
	st := ctrl.Snapshot()
	if st.User == nil {
		return domain.ErrUnauthenticated
	}

	filter := c.QueryParam("filter")
	if filter == "" {
		filter = domain.FilterPending
	}
	f := domain.TicketFilter{Status: filter, Search: c.QueryParam("q"), ViewerID: st.User.ID}
	tickets := domain.FilterTickets(st.Tickets, f)

	return c.JSON(http.StatusOK, ticketListResponse{
		Filter:  filter,
		Query:   f.Search,
		Total:   len(tickets),
		Tickets: toTicketResponses(tickets),
	})
}

// Create opens a ticket on behalf of the current user.
//
// @Summary      Create a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTicketRequest  true  "Ticket draft"
// @Success      201   {object}  stateResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/tickets [post]
func (h *TicketHandler) Create(c echo.Context) error {
	var req createTicketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}

	err = ctrl.CreateTicket(c.Request().Context(), ports.TicketDraft{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toStateResponse(ctrl.Snapshot()))
}

// Get selects a ticket by code and returns its detail.
//
// @Summary      Get a ticket by code
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        code  path      string  true  "Ticket code (e.g. TK-1001)"
// @Success      200   {object}  ticketResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/tickets/{code} [get]
func (h *TicketHandler) Get(c echo.Context) error {
	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}
	t, err := ctrl.Select(c.Param("code"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTicketResponse(t))
}

// Deselect clears the selected ticket.
//
// @Summary      Clear ticket selection
// @Tags         tickets
// @Security     BearerAuth
// @Success      204
// @Router       /v1/tickets/selection [delete]
func (h *TicketHandler) Deselect(c echo.Context) error {
	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}
	ctrl.Deselect()
	return c.NoContent(http.StatusNoContent)
}

// AddComment appends a comment to a ticket.
//
// @Summary      Comment on a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        code  path      string             true  "Ticket code"
// @Param        body  body      addCommentRequest  true  "Comment"
// @Success      201   {object}  ticketResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tickets/{code}/comments [post]
func (h *TicketHandler) AddComment(c echo.Context) error {
	var req addCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}

	code := c.Param("code")
	if err := ctrl.AddComment(c.Request().Context(), code, req.Content, req.IsInternal); err != nil {
		return err
	}
	return h.respondTicket(c, ctrl, code, http.StatusCreated)
}

// UpdateStatus sets the ticket status. Staff only.
//
// @Summary      Change ticket status
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        code  path      string               true  "Ticket code"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  ticketResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/tickets/{code}/status [patch]
func (h *TicketHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}

	code := c.Param("code")
	if err := ctrl.UpdateStatus(c.Request().Context(), code, domain.TicketStatus(req.Status)); err != nil {
		return err
	}
	return h.respondTicket(c, ctrl, code, http.StatusOK)
}

// Assign sets or clears the ticket assignee. Staff only.
//
// @Summary      Assign a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        code  path      string         true  "Ticket code"
// @Param        body  body      assignRequest  true  "Assignee (empty to unassign)"
// @Success      200   {object}  ticketResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/tickets/{code}/assignee [patch]
func (h *TicketHandler) Assign(c echo.Context) error {
	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}

	code := c.Param("code")
	if err := ctrl.Assign(c.Request().Context(), code, req.AssigneeID); err != nil {
		return err
	}
	return h.respondTicket(c, ctrl, code, http.StatusOK)
}

// Deliveries lists recorded notification outcomes for a ticket. Staff only.
//
// @Summary      Notification deliveries of a ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        code  path      string  true  "Ticket code"
// @Success      200   {array}   deliveryResponse
// @Failure      404   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/tickets/{code}/deliveries [get]
func (h *TicketHandler) Deliveries(c echo.Context) error {
	if h.deliveries == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "delivery log is not configured")
	}
	ctrl, err := sessionController(c, h.sessions)
	if err != nil {
		return err
	}
	t, ok := domain.FindByCode(ctrl.Snapshot().Tickets, c.Param("code"))
	if !ok {
		return domain.ErrTicketNotFound
	}

	ds, err := h.deliveries.ForTicket(c.Request().Context(), t.ID, deliveryHistoryLimit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDeliveryResponses(ds))
}

// respondTicket renders the ticket after a write. The write already
// succeeded, so a ticket missing from a stale reload is not an error.
func (h *TicketHandler) respondTicket(c echo.Context, ctrl ports.Controller, code string, status int) error {
	st := ctrl.Snapshot()
	t, ok := domain.FindByCode(st.Tickets, code)
	if !ok {
		return c.NoContent(status)
	}
	return c.JSON(status, toTicketResponse(t))
}
