package domain

import "testing"

func TestTicketCode(t *testing.T) {
	seq := int64(1042)
	cases := []struct {
		name     string
		id       string
		friendly *int64
		want     string
	}{
		{"friendly number", "3f2a9c1e-0000-0000-0000-000000000000", &seq, "TK-1042"},
		{"falls back to id prefix", "3f2a9c1e-0000-0000-0000-000000000000", nil, "3f2a9c1e"},
		{"short id kept whole", "abc", nil, "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TicketCode(tc.id, tc.friendly); got != tc.want {
				t.Errorf("TicketCode() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTicketStatus_Predicates(t *testing.T) {
	for _, s := range Statuses {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if TicketStatus("done").Valid() {
		t.Error("unknown status reported valid")
	}

	pending := map[TicketStatus]bool{
		StatusOpen: true, StatusInProgress: true, StatusWaiting: true,
		StatusResolved: false, StatusClosed: false,
	}
	for s, want := range pending {
		if got := s.IsPending(); got != want {
			t.Errorf("%s.IsPending() = %v, want %v", s, got, want)
		}
	}
	if !StatusOpen.IsActive() || !StatusInProgress.IsActive() || StatusWaiting.IsActive() {
		t.Error("only open and in_progress are active")
	}
}

func TestPriority_Valid(t *testing.T) {
	for _, p := range Priorities {
		if !p.Valid() {
			t.Errorf("%s should be valid", p)
		}
	}
	if Priority("urgent").Valid() {
		t.Error("unknown priority reported valid")
	}
}
