package memory

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/ports"
)

// Seed loads the demo directory: one admin, one agent, two regular users and
// a handful of tickets. Every seeded account signs in with password.
func (s *Store) Seed(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	people := []domain.User{
		{Name: "Carlos Admin", Email: "admin@delta.com", Role: domain.RoleAdmin, Department: "TI"},
		{Name: "Ana Suporte", Email: "ana@delta.com", Role: domain.RoleAgent, Department: "TI"},
		{Name: "João Usuário", Email: "joao@delta.com", Role: domain.RoleUser, Department: "Vendas"},
		{Name: "Maria Usuário", Email: "maria@delta.com", Role: domain.RoleUser, Department: "RH"},
	}
	ids := make([]string, len(people))
	for i, u := range people {
		u.ID = uuid.NewString()
		ids[i] = u.ID
		s.users[u.ID] = u
		s.creds[u.Email] = ports.Credential{ID: u.ID, Email: u.Email, PasswordHash: string(hash)}
	}
	admin, agent, joao, maria := ids[0], ids[1], ids[2], ids[3]

	now := s.now().UTC()
	day := 24 * time.Hour
	add := func(title, desc string, st domain.TicketStatus, p domain.Priority, dept, requester, assignee string, age time.Duration) string {
		s.seq++
		row := &ticketRow{
			id:          uuid.NewString(),
			friendlyID:  s.seq,
			title:       title,
			description: desc,
			status:      st,
			priority:    p,
			department:  dept,
			requesterID: requester,
			assigneeID:  assignee,
			createdAt:   now.Add(-age),
			updatedAt:   now.Add(-age),
		}
		s.tickets[row.id] = row
		return row.id
	}

	add("Erro ao acessar o ERP", "Não consigo logar no sistema financeiro desde hoje cedo. Aparece erro 500.",
		domain.StatusOpen, domain.PriorityHigh, "Financeiro", joao, "", 2*day)
	monitor := add("Solicitação de novo monitor", "Meu monitor está piscando, preciso de troca.",
		domain.StatusInProgress, domain.PriorityMedium, "RH", maria, agent, 5*day)
	add("Impressora sem toner", "A impressora do 2º andar está sem toner.",
		domain.StatusResolved, domain.PriorityLow, "Vendas", joao, admin, 10*day)

	s.tickets[monitor].updatedAt = now.Add(-time.Hour)
	s.comments = append(s.comments, commentRow{
		id:        uuid.NewString(),
		ticketID:  monitor,
		userID:    agent,
		content:   "Verifiquei o estoque, temos um monitor disponível. Agendarei a troca.",
		createdAt: now.Add(-2 * time.Hour),
	})
	return nil
}
