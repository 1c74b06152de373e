package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/api/metrics"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/ports"
)

// ControllerDeps are shared by every session controller.
type ControllerDeps struct {
	Auth     ports.AuthProvider
	Tickets  ports.TicketRepository
	Users    ports.UserRepository
	Notifier ports.Notifier
	Events   ports.EventPublisher
	// AppURL is linked from notification emails.
	AppURL string
	// InternalNotes enables staff-only comments. When false every comment is
	// stored public.
	InternalNotes bool
	Log           zerolog.Logger
}

// Controller holds one session's application state. Every intent takes the
// lock, so intents of one session never interleave.
type Controller struct {
	deps ControllerDeps

	mu       sync.Mutex
	token    string
	user     *domain.User
	view     domain.View
	tickets  []domain.Ticket
	users    []domain.User
	selected string
}

// NewController returns a controller with no identity on the login view.
func NewController(deps ControllerDeps) *Controller {
	if deps.Events == nil {
		deps.Events = nopPublisher{}
	}
	return &Controller{deps: deps, view: domain.ViewLogin}
}

// Snapshot copies the state. User lists are withheld from non-admins and
// internal comments from non-staff.
func (c *Controller) Snapshot() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := domain.State{View: c.view}
	if c.user == nil {
		return st
	}
	u := *c.user
	st.User = &u

	st.Tickets = make([]domain.Ticket, len(c.tickets))
	for i, t := range c.tickets {
		t.Comments = domain.VisibleComments(t.Comments, u.Role)
		st.Tickets[i] = t
	}
	if u.Role == domain.RoleAdmin {
		st.Users = append([]domain.User(nil), c.users...)
	}
	if c.selected != "" {
		if t, ok := domain.FindByCode(st.Tickets, c.selected); ok {
			st.Selected = &t
		}
	}
	return st
}

func (c *Controller) User() *domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// Token returns the session token the controller is bound to.
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// RestoreSession routes a recovery fragment to the reset view regardless of
// the session; otherwise it adopts the identity behind token, if any.
func (c *Controller) RestoreSession(ctx context.Context, token, fragment string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if domain.IsRecoveryFragment(fragment) {
		c.view = domain.ViewResetPassword
		return nil
	}
	if token == "" {
		c.view = domain.ViewLogin
		return nil
	}

	user, err := c.deps.Auth.CurrentUser(ctx, token)
	if err != nil || user == nil {
		if err != nil {
			c.deps.Log.Debug().Err(err).Msg("session restore failed")
		}
		c.clear()
		return nil
	}

	c.token = token
	c.user = user
	c.view = domain.ViewDashboard
	c.load(ctx)
	return nil
}

func (c *Controller) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.deps.Auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	c.token = sess.Token
	c.user = sess.User
	c.view = domain.ViewDashboard
	c.selected = ""
	c.load(ctx)
	return sess, nil
}

// Logout always ends the local session; a remote sign-out failure is logged.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		if err := c.deps.Auth.SignOut(ctx, c.token); err != nil {
			c.deps.Log.Warn().Err(err).Msg("remote sign out failed")
		}
	}
	c.clear()
	return nil
}

func (c *Controller) RequestPasswordReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return domain.ErrEmailRequired
	}
	return c.deps.Auth.SendPasswordReset(ctx, email)
}

// ResetPassword validates the pair locally before calling the provider and
// returns to the login view on success.
func (c *Controller) ResetPassword(ctx context.Context, recoveryToken, password, confirm string) error {
	if err := domain.ValidateNewPassword(password, confirm); err != nil {
		return err
	}
	if err := c.deps.Auth.UpdatePassword(ctx, recoveryToken, password); err != nil {
		return err
	}

	c.mu.Lock()
	c.clear()
	c.mu.Unlock()
	return nil
}

// Navigate switches view and clears the selection.
func (c *Controller) Navigate(view domain.View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !view.Valid() {
		return
	}
	c.view = view
	c.selected = ""
}

func (c *Controller) Select(code string) (domain.Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return domain.Ticket{}, domain.ErrUnauthenticated
	}
	t, ok := domain.FindByCode(c.tickets, code)
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	c.selected = code
	c.view = domain.ViewTickets
	t.Comments = domain.VisibleComments(t.Comments, c.user.Role)
	return t, nil
}

func (c *Controller) Deselect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = ""
}

// Reload refreshes tickets and users from storage.
func (c *Controller) Reload(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user != nil {
		c.load(ctx)
	}
}

// CreateTicket opens a ticket on behalf of the current user. The assignee
// notification is queued only after the write succeeds.
func (c *Controller) CreateTicket(ctx context.Context, draft ports.TicketDraft) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return domain.ErrUnauthenticated
	}
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return domain.ErrTitleRequired
	}
	priority := draft.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return domain.ErrInvalidPriority
	}
	department := c.user.Department
	if department == "" {
		department = domain.DefaultDepartment
	}

	nt := domain.NewTicket{
		Title:       title,
		Description: draft.Description,
		Priority:    priority,
		Department:  department,
		Status:      domain.StatusOpen,
		RequesterID: c.user.ID,
		AssigneeID:  draft.AssigneeID,
	}
	id, err := c.deps.Tickets.Create(ctx, nt)
	if err != nil {
		metrics.TicketMutationsTotal.WithLabelValues("create", "error").Inc()
		return fmt.Errorf("create ticket: %w", err)
	}
	metrics.TicketMutationsTotal.WithLabelValues("create", "ok").Inc()
	metrics.TicketsCreatedTotal.WithLabelValues(string(priority)).Inc()
	c.deps.Events.Publish(ctx, "ticket.created", map[string]any{
		"ticket_id": id, "requester_id": c.user.ID, "assignee_id": nt.AssigneeID, "priority": string(priority),
	})

	c.notifyAssignee(ctx, id, nt)
	c.load(ctx)
	return nil
}

// notifyAssignee reads the assignee from storage; the loaded collection may
// predate a user created by another session.
func (c *Controller) notifyAssignee(ctx context.Context, ticketID string, nt domain.NewTicket) {
	if nt.AssigneeID == "" || c.deps.Notifier == nil {
		return
	}
	assignee, err := c.deps.Users.FindByID(ctx, nt.AssigneeID)
	if err != nil {
		c.deps.Log.Warn().Err(err).Str("ticket_id", ticketID).Str("assignee_id", nt.AssigneeID).Msg("assignee lookup failed, notification skipped")
		return
	}
	if assignee.Email == "" {
		return
	}

	n, err := NewTicketNotification(ticketID, nt, c.user, assignee, c.deps.AppURL)
	if err != nil {
		c.deps.Log.Warn().Err(err).Str("ticket_id", ticketID).Msg("build notification failed")
		return
	}
	c.deps.Notifier.Enqueue(n)
}

// AddComment appends a comment authored by the current user. The internal
// flag is kept only when internal notes are enabled and the author is staff.
func (c *Controller) AddComment(ctx context.Context, code, text string, internal bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return domain.ErrUnauthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrCommentRequired
	}
	t, ok := domain.FindByCode(c.tickets, code)
	if !ok {
		return domain.ErrTicketNotFound
	}

	err := c.deps.Tickets.AddComment(ctx, domain.NewComment{
		TicketID: t.ID,
		UserID:   c.user.ID,
		Content:  text,
		Internal: internal && c.deps.InternalNotes && c.user.Role.IsStaff(),
	})
	if err := c.afterWrite(ctx, "comment", t.ID, err); err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	return nil
}

func (c *Controller) UpdateStatus(ctx context.Context, code string, status domain.TicketStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.staffTarget(code)
	if err != nil {
		return err
	}
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}

	err = c.deps.Tickets.UpdateStatus(ctx, t.ID, status)
	if err := c.afterWrite(ctx, "status", t.ID, err); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// Assign sets the assignee of a ticket; an empty userID unassigns it.
func (c *Controller) Assign(ctx context.Context, code, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.staffTarget(code)
	if err != nil {
		return err
	}

	err = c.deps.Tickets.Assign(ctx, t.ID, userID)
	if err := c.afterWrite(ctx, "assign", t.ID, err); err != nil {
		return fmt.Errorf("assign ticket: %w", err)
	}
	return nil
}

func (c *Controller) staffTarget(code string) (domain.Ticket, error) {
	if c.user == nil {
		return domain.Ticket{}, domain.ErrUnauthenticated
	}
	if !c.user.Role.IsStaff() {
		return domain.Ticket{}, domain.ErrAccessDenied
	}
	t, ok := domain.FindByCode(c.tickets, code)
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return t, nil
}

// afterWrite records the outcome of a ticket write. On success it publishes
// the event and reloads; on failure the state is left untouched.
func (c *Controller) afterWrite(ctx context.Context, kind, ticketID string, err error) error {
	if err != nil {
		metrics.TicketMutationsTotal.WithLabelValues(kind, "error").Inc()
		return err
	}
	metrics.TicketMutationsTotal.WithLabelValues(kind, "ok").Inc()
	c.deps.Events.Publish(ctx, "ticket."+kind, map[string]any{"ticket_id": ticketID, "actor_id": c.user.ID})
	c.load(ctx)
	return nil
}

// Users returns the loaded users. Admin only.
func (c *Controller) Users() ([]domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireAdmin(); err != nil {
		return nil, err
	}
	return append([]domain.User(nil), c.users...), nil
}

func (c *Controller) AddUser(ctx context.Context, u domain.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireAdmin(); err != nil {
		return err
	}
	if err := validateUser(&u); err != nil {
		return err
	}

	if _, err := c.deps.Users.Create(ctx, u); err != nil {
		return fmt.Errorf("add user: %w", err)
	}
	if u.Password != "" {
		if err := c.deps.Auth.SetPassword(ctx, u.Email, u.Password); err != nil {
			c.load(ctx)
			return fmt.Errorf("add user: %w", err)
		}
	}
	c.load(ctx)
	return nil
}

// UpdateUser edits a profile. Admins may edit anyone; others only themselves
// and never their own role.
func (c *Controller) UpdateUser(ctx context.Context, u domain.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return domain.ErrUnauthenticated
	}
	self := u.ID == c.user.ID
	if c.user.Role != domain.RoleAdmin {
		if !self {
			return domain.ErrAccessDenied
		}
		u.Role = c.user.Role
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	if !u.Role.Valid() {
		return domain.ErrInvalidRole
	}
	if strings.TrimSpace(u.Name) == "" {
		return domain.ErrNameRequired
	}
	if u.Password != "" && len(u.Password) < domain.MinPasswordLength {
		return domain.ErrPasswordTooShort
	}

	updated, err := c.deps.Users.Update(ctx, u)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if u.Password != "" {
		if err := c.deps.Auth.SetPassword(ctx, updated.Email, u.Password); err != nil {
			if self {
				c.user = updated
			}
			c.load(ctx)
			return fmt.Errorf("update user: %w", err)
		}
	}
	if self {
		c.user = updated
	}
	c.load(ctx)
	return nil
}

// DeleteUser removes a profile row. Tickets and comments that reference the
// user are left in place.
func (c *Controller) DeleteUser(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireAdmin(); err != nil {
		return err
	}
	if err := c.deps.Users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	c.load(ctx)
	return nil
}

func (c *Controller) requireAdmin() error {
	if c.user == nil {
		return domain.ErrUnauthenticated
	}
	if c.user.Role != domain.RoleAdmin {
		return domain.ErrAccessDenied
	}
	return nil
}

// load fetches tickets and users concurrently. When either fetch fails the
// previous collections are kept and the failure is only logged.
func (c *Controller) load(ctx context.Context) {
	var (
		tickets []domain.Ticket
		users   []domain.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tickets, err = c.deps.Tickets.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = c.deps.Users.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.ReloadFailuresTotal.Inc()
		c.deps.Log.Error().Err(err).Msg("reload failed, keeping previous state")
		return
	}

	c.tickets = tickets
	c.users = users
	if c.selected != "" {
		if _, ok := domain.FindByCode(tickets, c.selected); !ok {
			c.selected = ""
		}
	}
}

func (c *Controller) clear() {
	c.token = ""
	c.user = nil
	c.tickets = nil
	c.users = nil
	c.selected = ""
	c.view = domain.ViewLogin
}

func validateUser(u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		return domain.ErrNameRequired
	}
	if u.Email == "" {
		return domain.ErrEmailRequired
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	if !u.Role.Valid() {
		return domain.ErrInvalidRole
	}
	if u.Password != "" && len(u.Password) < domain.MinPasswordLength {
		return domain.ErrPasswordTooShort
	}
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, map[string]any) {}
