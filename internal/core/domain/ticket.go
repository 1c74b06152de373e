package domain

import (
	"strconv"
	"time"
)

// TicketStatus represents the lifecycle state of a ticket. Any value may be
// set from any other; there is no transition graph.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in_progress"
	StatusWaiting    TicketStatus = "waiting"
	StatusResolved   TicketStatus = "resolved"
	StatusClosed     TicketStatus = "closed"
)

// Statuses lists every status in display order.
var Statuses = []TicketStatus{StatusOpen, StatusInProgress, StatusWaiting, StatusResolved, StatusClosed}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsPending reports whether the ticket still needs work.
func (s TicketStatus) IsPending() bool {
	return s != StatusResolved && s != StatusClosed
}

// IsActive reports whether the ticket is open or being worked on. Calendar
// days holding an active ticket are flagged.
func (s TicketStatus) IsActive() bool {
	return s == StatusOpen || s == StatusInProgress
}

// Priority is advisory only.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

const (
	// CodePrefix tags codes derived from the storage sequence number.
	CodePrefix = "TK-"
	// UnknownRequester labels tickets whose requester row no longer exists.
	UnknownRequester = "Unknown requester"
	// SystemAuthor labels comments whose author row no longer exists.
	SystemAuthor = "System"
)

// TicketCode derives the human-facing code: TK-<friendly> when the sequence
// number exists, else the first 8 characters of the internal id.
func TicketCode(id string, friendly *int64) string {
	if friendly != nil {
		return CodePrefix + strconv.FormatInt(*friendly, 10)
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Ticket is the display model of a support request.
type Ticket struct {
	ID            string
	Code          string
	Title         string
	Description   string
	Status        TicketStatus
	Priority      Priority
	Department    string
	RequesterID   string
	RequesterName string
	AssigneeID    string
	AssigneeName  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Comments      []Comment
}

// Unassigned reports whether nobody is assigned.
func (t Ticket) Unassigned() bool { return t.AssigneeID == "" }

// Comment belongs to exactly one ticket and is append-only.
type Comment struct {
	ID        string
	TicketID  string
	UserID    string
	UserName  string
	Content   string
	Internal  bool
	CreatedAt time.Time
}

// NewTicket is the write model for ticket creation.
type NewTicket struct {
	Title       string
	Description string
	Priority    Priority
	Department  string
	Status      TicketStatus
	RequesterID string
	AssigneeID  string
}

// NewComment is the write model for comment creation.
type NewComment struct {
	TicketID string
	UserID   string
	Content  string
	Internal bool
}
