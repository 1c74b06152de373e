// Package memory is an in-process implementation of the storage ports. It
// backs STORE=memory development runs and end-to-end tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/ports"
)

type ticketRow struct {
	id          string
	friendlyID  int64
	title       string
	description string
	status      domain.TicketStatus
	priority    domain.Priority
	department  string
	requesterID string
	assigneeID  string
	createdAt   time.Time
	updatedAt   time.Time
}

type commentRow struct {
	id        string
	ticketID  string
	userID    string
	content   string
	internal  bool
	createdAt time.Time
}

type recovery struct {
	email   string
	expires time.Time
}

// Store keeps rows the same way the relational schema does: tickets and
// comments reference users by id only, so deleted users leave dangling ids.
type Store struct {
	mu       sync.RWMutex
	now      func() time.Time
	seq      int64
	users    map[string]domain.User
	creds    map[string]ports.Credential
	tickets  map[string]*ticketRow
	comments []commentRow
	revoked  map[string]time.Time
	recovery map[string]recovery
}

func New() *Store {
	return &Store{
		now:      time.Now,
		seq:      1000,
		users:    make(map[string]domain.User),
		creds:    make(map[string]ports.Credential),
		tickets:  make(map[string]*ticketRow),
		revoked:  make(map[string]time.Time),
		recovery: make(map[string]recovery),
	}
}

// Tickets returns the store as a ports.TicketRepository.
func (s *Store) Tickets() ports.TicketRepository { return ticketRepo{s} }

// Users returns the store as a ports.UserRepository.
func (s *Store) Users() ports.UserRepository { return userRepo{s} }

// Credentials returns the store as a ports.CredentialRepository.
func (s *Store) Credentials() ports.CredentialRepository { return credRepo{s} }

// Sessions returns the store as a ports.SessionStore.
func (s *Store) Sessions() ports.SessionStore { return sessionStore{s} }

type ticketRepo struct{ s *Store }

func (r ticketRepo) List(_ context.Context) ([]domain.Ticket, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	byTicket := make(map[string][]domain.Comment)
	for _, c := range s.comments {
		name := domain.SystemAuthor
		if u, ok := s.users[c.userID]; ok {
			name = u.Name
		}
		byTicket[c.ticketID] = append(byTicket[c.ticketID], domain.Comment{
			ID:        c.id,
			TicketID:  c.ticketID,
			UserID:    c.userID,
			UserName:  name,
			Content:   c.content,
			Internal:  c.internal,
			CreatedAt: c.createdAt,
		})
	}

	out := make([]domain.Ticket, 0, len(s.tickets))
	for _, row := range s.tickets {
		friendly := row.friendlyID
		t := domain.Ticket{
			ID:            row.id,
			Code:          domain.TicketCode(row.id, &friendly),
			Title:         row.title,
			Description:   row.description,
			Status:        row.status,
			Priority:      row.priority,
			Department:    row.department,
			RequesterID:   row.requesterID,
			RequesterName: domain.UnknownRequester,
			AssigneeID:    row.assigneeID,
			CreatedAt:     row.createdAt,
			UpdatedAt:     row.updatedAt,
			Comments:      byTicket[row.id],
		}
		if u, ok := s.users[row.requesterID]; ok {
			t.RequesterName = u.Name
		}
		if u, ok := s.users[row.assigneeID]; ok {
			t.AssigneeName = u.Name
		}
		out = append(out, t)
	}

	// Newest first; the friendly number breaks ties so reloads are stable.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return s.tickets[out[i].ID].friendlyID > s.tickets[out[j].ID].friendlyID
	})
	return out, nil
}

func (r ticketRepo) Create(_ context.Context, t domain.NewTicket) (string, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	now := s.now().UTC()
	row := &ticketRow{
		id:          uuid.NewString(),
		friendlyID:  s.seq,
		title:       t.Title,
		description: t.Description,
		status:      t.Status,
		priority:    t.Priority,
		department:  t.Department,
		requesterID: t.RequesterID,
		assigneeID:  t.AssigneeID,
		createdAt:   now,
		updatedAt:   now,
	}
	s.tickets[row.id] = row
	return row.id, nil
}

func (r ticketRepo) UpdateStatus(_ context.Context, ticketID string, status domain.TicketStatus) error {
	return r.s.touch(ticketID, func(row *ticketRow) { row.status = status })
}

func (r ticketRepo) Assign(_ context.Context, ticketID, assigneeID string) error {
	return r.s.touch(ticketID, func(row *ticketRow) { row.assigneeID = assigneeID })
}

func (r ticketRepo) AddComment(_ context.Context, c domain.NewComment) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.tickets[c.TicketID]
	if !ok {
		return domain.ErrTicketNotFound
	}
	now := s.now().UTC()
	s.comments = append(s.comments, commentRow{
		id:        uuid.NewString(),
		ticketID:  c.TicketID,
		userID:    c.UserID,
		content:   c.Content,
		internal:  c.Internal,
		createdAt: now,
	})
	row.updatedAt = now
	return nil
}

func (s *Store) touch(ticketID string, apply func(*ticketRow)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.tickets[ticketID]
	if !ok {
		return domain.ErrTicketNotFound
	}
	apply(row)
	row.updatedAt = s.now().UTC()
	return nil
}

type userRepo struct{ s *Store }

func (r userRepo) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r userRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Password = ""
	r.s.users[u.ID] = u
	return &u, nil
}

func (r userRepo) Update(_ context.Context, u domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[u.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cur.Name = u.Name
	cur.Role = u.Role
	cur.Department = u.Department
	cur.Avatar = u.Avatar
	r.s.users[u.ID] = cur
	return &cur, nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}

type credRepo struct{ s *Store }

func (r credRepo) FindByEmail(_ context.Context, email string) (*ports.Credential, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.creds[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &c, nil
}

func (r credRepo) Upsert(_ context.Context, email, passwordHash string) (*ports.Credential, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.creds[email]
	if !ok {
		c = ports.Credential{ID: uuid.NewString(), Email: email}
	}
	c.PasswordHash = passwordHash
	r.s.creds[email] = c
	return &c, nil
}

type sessionStore struct{ s *Store }

func (st sessionStore) Revoke(_ context.Context, sessionID string, until time.Time) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	st.s.revoked[sessionID] = until
	return nil
}

func (st sessionStore) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	until, ok := st.s.revoked[sessionID]
	return ok && st.s.now().Before(until), nil
}

func (st sessionStore) SaveRecovery(_ context.Context, tokenHash, email string, ttl time.Duration) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	st.s.recovery[tokenHash] = recovery{email: email, expires: st.s.now().Add(ttl)}
	return nil
}

func (st sessionStore) ConsumeRecovery(_ context.Context, tokenHash string) (string, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	rec, ok := st.s.recovery[tokenHash]
	delete(st.s.recovery, tokenHash)
	if !ok || !st.s.now().Before(rec.expires) {
		return "", domain.ErrInvalidRecoveryToken
	}
	return rec.email, nil
}
