package domain

import "strings"

// Ticket list filters. Any other value is treated as a status.
const (
	FilterPending    = "pending"
	FilterAll        = "all"
	FilterMine       = "mine"
	FilterUnassigned = "unassigned"
)

// TicketFilter narrows an already-loaded ticket collection.
type TicketFilter struct {
	// Status is one of the Filter* constants or a TicketStatus. Empty means
	// FilterPending.
	Status string
	// Search is matched case-insensitively against title, code and requester.
	Search string
	// ViewerID resolves FilterMine.
	ViewerID string
}

// Matches reports whether t passes f.
func (f TicketFilter) Matches(t Ticket) bool {
	var ok bool
	switch f.Status {
	case "", FilterPending:
		ok = t.Status.IsPending()
	case FilterAll:
		ok = true
	case FilterMine:
		ok = f.ViewerID != "" && t.AssigneeID == f.ViewerID
	case FilterUnassigned:
		ok = t.Unassigned()
	default:
		ok = string(t.Status) == f.Status
	}
	if !ok {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Code), q) ||
		strings.Contains(strings.ToLower(t.RequesterName), q)
}

// FilterTickets returns the tickets matching f, preserving order.
func FilterTickets(tickets []Ticket, f TicketFilter) []Ticket {
	out := make([]Ticket, 0, len(tickets))
	for _, t := range tickets {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// FindByCode returns the ticket with the given human-facing code.
func FindByCode(tickets []Ticket, code string) (Ticket, bool) {
	for _, t := range tickets {
		if t.Code == code {
			return t, true
		}
	}
	return Ticket{}, false
}

// VisibleComments drops internal notes for viewers who are not staff.
func VisibleComments(comments []Comment, viewer Role) []Comment {
	if viewer.IsStaff() {
		return comments
	}
	out := make([]Comment, 0, len(comments))
	for _, c := range comments {
		if !c.Internal {
			out = append(out, c)
		}
	}
	return out
}
