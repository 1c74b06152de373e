package domain

// Count is one slice of a chart.
type Count struct {
	Name  string
	Value int
}

// Summary is the manager dashboard aggregate.
type Summary struct {
	Total      int
	Open       int
	InProgress int
	// Resolved counts resolved and closed tickets together.
	Resolved   int
	ByStatus   []Count
	ByPriority []Count
}

// Summarize aggregates the loaded tickets. Chart slices follow the declared
// status/priority order and omit zero counts.
func Summarize(tickets []Ticket) Summary {
	s := Summary{Total: len(tickets)}
	byStatus := make(map[TicketStatus]int)
	byPriority := make(map[Priority]int)

	for _, t := range tickets {
		switch t.Status {
		case StatusOpen:
			s.Open++
		case StatusInProgress:
			s.InProgress++
		case StatusResolved, StatusClosed:
			s.Resolved++
		}
		byStatus[t.Status]++
		byPriority[t.Priority]++
	}

	for _, st := range Statuses {
		if n := byStatus[st]; n > 0 {
			s.ByStatus = append(s.ByStatus, Count{Name: string(st), Value: n})
		}
	}
	for _, p := range Priorities {
		if n := byPriority[p]; n > 0 {
			s.ByPriority = append(s.ByPriority, Count{Name: string(p), Value: n})
		}
	}
	return s
}
