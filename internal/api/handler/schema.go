package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Requests ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type recoverRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// resetPasswordRequest accepts the recovery token either directly or as the
// raw URL fragment of the reset link.
type resetPasswordRequest struct {
	Token           string `json:"token"`
	Fragment        string `json:"fragment"`
	Password        string `json:"password"        validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type navigateRequest struct {
	View string `json:"view" validate:"required,oneof=dashboard tickets users profile calendar"`
}

type createTicketRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"    validate:"omitempty,oneof=low medium high critical"`
	AssigneeID  string `json:"assigneeId"`
}

type addCommentRequest struct {
	Content    string `json:"content"    validate:"required"`
	IsInternal bool   `json:"isInternal"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress waiting resolved closed"`
}

// assignRequest with an empty assigneeId unassigns the ticket.
type assignRequest struct {
	AssigneeID string `json:"assigneeId"`
}

type userRequest struct {
	Name       string `json:"name"       validate:"required"`
	Email      string `json:"email"      validate:"required,email"`
	Role       string `json:"role"       validate:"omitempty,oneof=admin agent user"`
	Department string `json:"department"`
	Avatar     string `json:"avatar"`
	Password   string `json:"password"   validate:"omitempty,min=6"`
}

type profileRequest struct {
	Name       string `json:"name"       validate:"required"`
	Department string `json:"department"`
	Avatar     string `json:"avatar"`
}

// sendEmailRequest is forwarded as is; the provider judges the payload.
type sendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// --- Responses ---

type userResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
}

type commentResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt"`
	IsInternal bool   `json:"isInternal"`
}

type ticketResponse struct {
	ID            string            `json:"id"`
	Code          string            `json:"code"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Status        string            `json:"status"`
	Priority      string            `json:"priority"`
	Department    string            `json:"department"`
	RequesterID   string            `json:"requesterId"`
	RequesterName string            `json:"requesterName"`
	AssigneeID    string            `json:"assigneeId,omitempty"`
	AssigneeName  string            `json:"assigneeName,omitempty"`
	CreatedAt     string            `json:"createdAt"`
	UpdatedAt     string            `json:"updatedAt"`
	Comments      []commentResponse `json:"comments"`
}

type sessionResponse struct {
	Token string        `json:"token,omitempty"`
	State stateResponse `json:"state"`
}

type stateResponse struct {
	View         string           `json:"view"`
	User         *userResponse    `json:"user,omitempty"`
	Tickets      []ticketResponse `json:"tickets"`
	Users        []userResponse   `json:"users,omitempty"`
	SelectedCode string           `json:"selectedCode,omitempty"`
}

type countResponse struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type dashboardResponse struct {
	Total      int             `json:"total"`
	Open       int             `json:"open"`
	InProgress int             `json:"inProgress"`
	Resolved   int             `json:"resolved"`
	ByStatus   []countResponse `json:"byStatus"`
	ByPriority []countResponse `json:"byPriority"`
}

type calendarTicket struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type calendarDay struct {
	Day     int              `json:"day"`
	Date    string           `json:"date"`
	Active  bool             `json:"active"`
	Tickets []calendarTicket `json:"tickets"`
}

type calendarResponse struct {
	Year         int           `json:"year"`
	Month        int           `json:"month"`
	FirstWeekday int           `json:"firstWeekday"`
	Days         []calendarDay `json:"days"`
}

type ticketListResponse struct {
	Filter  string           `json:"filter"`
	Query   string           `json:"query,omitempty"`
	Total   int              `json:"total"`
	Tickets []ticketResponse `json:"tickets"`
}

type deliveryResponse struct {
	To          string `json:"to"`
	Subject     string `json:"subject"`
	Result      string `json:"result"`
	Error       string `json:"error,omitempty"`
	AttemptedAt string `json:"attemptedAt"`
}
