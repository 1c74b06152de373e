package handler

import (
	"time"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
)

const timeLayout = time.RFC3339

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		Department: u.Department,
		Avatar:     u.Avatar,
	}
}

func toUserResponses(users []domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toTicketResponse(t domain.Ticket) ticketResponse {
	resp := ticketResponse{
		ID:            t.ID,
		Code:          t.Code,
		Title:         t.Title,
		Description:   t.Description,
		Status:        string(t.Status),
		Priority:      string(t.Priority),
		Department:    t.Department,
		RequesterID:   t.RequesterID,
		RequesterName: t.RequesterName,
		AssigneeID:    t.AssigneeID,
		AssigneeName:  t.AssigneeName,
		CreatedAt:     t.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt:     t.UpdatedAt.UTC().Format(timeLayout),
		Comments:      make([]commentResponse, 0, len(t.Comments)),
	}
	for _, c := range t.Comments {
		resp.Comments = append(resp.Comments, commentResponse{
			ID:         c.ID,
			UserID:     c.UserID,
			UserName:   c.UserName,
			Content:    c.Content,
			CreatedAt:  c.CreatedAt.UTC().Format(timeLayout),
			IsInternal: c.Internal,
		})
	}
	return resp
}

func toTicketResponses(tickets []domain.Ticket) []ticketResponse {
	out := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketResponse(t))
	}
	return out
}

func toStateResponse(st domain.State) stateResponse {
	resp := stateResponse{
		View:    string(st.View),
		Tickets: toTicketResponses(st.Tickets),
	}
	if st.User != nil {
		u := toUserResponse(*st.User)
		resp.User = &u
	}
	if st.Users != nil {
		resp.Users = toUserResponses(st.Users)
	}
	if st.Selected != nil {
		resp.SelectedCode = st.Selected.Code
	}
	return resp
}

func toCounts(counts []domain.Count) []countResponse {
	out := make([]countResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, countResponse{Name: c.Name, Value: c.Value})
	}
	return out
}

func toDashboardResponse(s domain.Summary) dashboardResponse {
	return dashboardResponse{
		Total:      s.Total,
		Open:       s.Open,
		InProgress: s.InProgress,
		Resolved:   s.Resolved,
		ByStatus:   toCounts(s.ByStatus),
		ByPriority: toCounts(s.ByPriority),
	}
}

func toCalendarResponse(m domain.CalendarMonth) calendarResponse {
	resp := calendarResponse{
		Year:         m.Year,
		Month:        int(m.Month),
		FirstWeekday: int(m.FirstWeekday),
		Days:         make([]calendarDay, 0, len(m.Days)),
	}
	for _, d := range m.Days {
		day := calendarDay{
			Day:     d.Day,
			Date:    d.Date.Format("2006-01-02"),
			Active:  d.Active,
			Tickets: make([]calendarTicket, 0, len(d.Tickets)),
		}
		for _, t := range d.Tickets {
			day.Tickets = append(day.Tickets, calendarTicket{Code: t.Code, Title: t.Title, Status: string(t.Status)})
		}
		resp.Days = append(resp.Days, day)
	}
	return resp
}

func toDeliveryResponses(ds []domain.Delivery) []deliveryResponse {
	out := make([]deliveryResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, deliveryResponse{
			To:          d.To,
			Subject:     d.Subject,
			Result:      d.Result,
			Error:       d.Error,
			AttemptedAt: d.Attempted.UTC().Format(timeLayout),
		})
	}
	return out
}
