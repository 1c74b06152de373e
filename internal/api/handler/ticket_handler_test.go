package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
)

func TestTicketHandler_List(t *testing.T) {
	reg, _ := newRegistry(t)
	token := login(t, reg, "ana@delta.com")
	h := NewTicketHandler(reg, nil)

	cases := map[string]int{
		"/v1/tickets":                    2,
		"/v1/tickets?filter=all":         3,
		"/v1/tickets?filter=mine":        1,
		"/v1/tickets?filter=unassigned":  1,
		"/v1/tickets?filter=resolved":    1,
		"/v1/tickets?filter=all&q=toner": 1,
	}
	for target, want := range cases {
		c, rec := newContext(newEcho(), http.MethodGet, target, "", token)
		if err := h.List(c); err != nil {
			t.Fatalf("%s: %v", target, err)
		}
		var resp ticketListResponse
		decode(t, rec, &resp)
		if resp.Total != want || len(resp.Tickets) != want {
			t.Errorf("%s: expected %d tickets, got %d", target, want, resp.Total)
		}
	}
}

func TestTicketHandler_CreateAndComment(t *testing.T) {
	reg, _ := newRegistry(t)
	token := login(t, reg, "joao@delta.com")
	h := NewTicketHandler(reg, nil)

	c, rec := newContext(newEcho(), http.MethodPost, "/v1/tickets", `{"title":"Mouse sem fio","priority":"low"}`, token)
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var st stateResponse
	decode(t, rec, &st)
	if len(st.Tickets) != 4 || st.Tickets[0].Code != "TK-1004" || st.Tickets[0].Priority != "low" {
		t.Fatalf("new ticket not first in state: %+v", st.Tickets)
	}

	c, rec = newContext(newEcho(), http.MethodPost, "/v1/tickets/TK-1004/comments", `{"content":"Urgente"}`, token)
	c.SetParamNames("code")
	c.SetParamValues("TK-1004")
	if err := h.AddComment(c); err != nil {
		t.Fatalf("comment: %v", err)
	}
	var tk ticketResponse
	decode(t, rec, &tk)
	if rec.Code != http.StatusCreated || len(tk.Comments) != 1 || tk.Comments[0].Content != "Urgente" {
		t.Errorf("unexpected response %d %+v", rec.Code, tk)
	}
}

func TestTicketHandler_CreateValidation(t *testing.T) {
	reg, _ := newRegistry(t)
	token := login(t, reg, "joao@delta.com")
	h := NewTicketHandler(reg, nil)

	c, _ := newContext(newEcho(), http.MethodPost, "/v1/tickets", `{"title":""}`, token)
	if code := httpCode(t, h.Create(c)); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
	c, _ = newContext(newEcho(), http.MethodPost, "/v1/tickets", `{"title":"x","priority":"urgent"}`, token)
	if code := httpCode(t, h.Create(c)); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestTicketHandler_GetAndStatus(t *testing.T) {
	reg, _ := newRegistry(t)
	h := NewTicketHandler(reg, nil)

	userToken := login(t, reg, "maria@delta.com")
	c, _ := newContext(newEcho(), http.MethodGet, "/v1/tickets/TK-9999", "", userToken)
	c.SetParamNames("code")
	c.SetParamValues("TK-9999")
	if err := h.Get(c); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Errorf("expected ErrTicketNotFound, got %v", err)
	}

	c, _ = newContext(newEcho(), http.MethodPatch, "/v1/tickets/TK-1001/status", `{"status":"closed"}`, userToken)
	c.SetParamNames("code")
	c.SetParamValues("TK-1001")
	if err := h.UpdateStatus(c); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}

	agentToken := login(t, reg, "ana@delta.com")
	c, rec := newContext(newEcho(), http.MethodPatch, "/v1/tickets/TK-1001/status", `{"status":"in_progress"}`, agentToken)
	c.SetParamNames("code")
	c.SetParamValues("TK-1001")
	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("update status: %v", err)
	}
	var tk ticketResponse
	decode(t, rec, &tk)
	if tk.Status != "in_progress" {
		t.Errorf("unexpected status %q", tk.Status)
	}
}

func TestTicketHandler_DeliveriesUnavailable(t *testing.T) {
	reg, _ := newRegistry(t)
	token := login(t, reg, "ana@delta.com")
	c, _ := newContext(newEcho(), http.MethodGet, "/v1/tickets/TK-1001/deliveries", "", token)
	c.SetParamNames("code")
	c.SetParamValues("TK-1001")

	if code := httpCode(t, NewTicketHandler(reg, nil).Deliveries(c)); code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", code)
	}
}

func TestTicketHandler_RequiresSession(t *testing.T) {
	reg, _ := newRegistry(t)
	c, _ := newContext(newEcho(), http.MethodGet, "/v1/tickets", "", "")
	if code := httpCode(t, NewTicketHandler(reg, nil).List(c)); code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", code)
	}
}
