package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
)

func toDomainUser(row userModel) domain.User {
	return domain.User{
		ID:         row.ID,
		Name:       row.Name,
		Email:      row.Email,
		Role:       domain.Role(row.Role),
		Department: deref(row.Department),
		Avatar:     deref(row.Avatar),
	}
}

// toDomainTicket maps a preloaded row. Missing joins fall back to labels:
// requester to UnknownRequester, comment author to SystemAuthor, assignee to
// an empty name.
func toDomainTicket(row ticketModel) domain.Ticket {
	t := domain.Ticket{
		ID:            row.ID,
		Code:          domain.TicketCode(row.ID, row.FriendlyID),
		Title:         row.Title,
		Description:   row.Description,
		Status:        domain.TicketStatus(row.Status),
		Priority:      domain.Priority(row.Priority),
		Department:    row.Department,
		RequesterID:   row.RequesterID,
		RequesterName: domain.UnknownRequester,
		AssigneeID:    deref(row.AssigneeID),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.Requester != nil {
		t.RequesterName = row.Requester.Name
	}
	if row.Assignee != nil {
		t.AssigneeName = row.Assignee.Name
	}

	if len(row.Comments) > 0 {
		t.Comments = make([]domain.Comment, 0, len(row.Comments))
		for _, c := range row.Comments {
			t.Comments = append(t.Comments, toDomainComment(c))
		}
	}
	return t
}

func toDomainComment(row commentModel) domain.Comment {
	c := domain.Comment{
		ID:        row.ID,
		TicketID:  row.TicketID,
		UserID:    row.UserID,
		UserName:  domain.SystemAuthor,
		Content:   row.Content,
		Internal:  row.IsInternal,
		CreatedAt: row.CreatedAt,
	}
	if row.Author != nil {
		c.UserName = row.Author.Name
	}
	return c
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
