package domain

import "testing"

func TestSummarize(t *testing.T) {
	tickets := []Ticket{
		{Status: StatusOpen, Priority: PriorityHigh},
		{Status: StatusOpen, Priority: PriorityLow},
		{Status: StatusInProgress, Priority: PriorityHigh},
		{Status: StatusResolved, Priority: PriorityMedium},
		{Status: StatusClosed, Priority: PriorityHigh},
		{Status: StatusWaiting, Priority: PriorityHigh},
	}

	s := Summarize(tickets)

	if s.Total != 6 || s.Open != 2 || s.InProgress != 1 || s.Resolved != 2 {
		t.Errorf("unexpected counters: %+v", s)
	}

	wantStatus := []Count{
		{string(StatusOpen), 2}, {string(StatusInProgress), 1}, {string(StatusWaiting), 1},
		{string(StatusResolved), 1}, {string(StatusClosed), 1},
	}
	if len(s.ByStatus) != len(wantStatus) {
		t.Fatalf("ByStatus = %+v", s.ByStatus)
	}
	for i, c := range wantStatus {
		if s.ByStatus[i] != c {
			t.Errorf("ByStatus[%d] = %+v, want %+v", i, s.ByStatus[i], c)
		}
	}

	wantPriority := []Count{{string(PriorityLow), 1}, {string(PriorityMedium), 1}, {string(PriorityHigh), 4}}
	if len(s.ByPriority) != len(wantPriority) {
		t.Fatalf("ByPriority = %+v (critical has no tickets and must be omitted)", s.ByPriority)
	}
	for i, c := range wantPriority {
		if s.ByPriority[i] != c {
			t.Errorf("ByPriority[%d] = %+v, want %+v", i, s.ByPriority[i], c)
		}
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.ByStatus != nil || s.ByPriority != nil {
		t.Errorf("empty summary = %+v", s)
	}
}
