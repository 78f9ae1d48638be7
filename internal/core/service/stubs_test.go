package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/policy"
)

const bootstrapName = "denisunderonov"

func testPolicy() *policy.Policy { return policy.New(bootstrapName) }

// memAccounts is an in-memory AccountRepository that keeps the same
// transactional guarantees the SQL repository gives.
type memAccounts struct {
	mu   sync.Mutex
	byID map[string]*domain.Account
	seq  int
}

func newMemAccounts(accounts ...domain.Account) *memAccounts {
	m := &memAccounts{byID: map[string]*domain.Account{}}
	for i := range accounts {
		a := accounts[i]
		m.byID[a.ID] = &a
	}
	return m
}

func (m *memAccounts) creators() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, a := range m.byID {
		if a.Role == domain.RoleCreator {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (m *memAccounts) get(id string) domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.byID[id]
}

func (m *memAccounts) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Username == a.Username || existing.Email == a.Email {
			return nil, domain.ErrUserExists
		}
	}
	if a.ID == "" {
		m.seq++
		a.ID = fmt.Sprintf("gen-%d", m.seq)
	}
	cp := *a
	m.byID[a.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memAccounts) FindByID(_ context.Context, id string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *a
	return &out, nil
}

func (m *memAccounts) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Username == username {
			out := *a
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memAccounts) FindByLogin(_ context.Context, login string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Username == login || a.Email == login {
			out := *a
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memAccounts) List(_ context.Context, search string, limit int) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Account
	for _, a := range m.byID {
		if search == "" || strings.Contains(strings.ToLower(a.Username), strings.ToLower(search)) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memAccounts) Employees(_ context.Context) ([]domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Employee
	for _, a := range m.byID {
		if a.Role.IsStaff() {
			out = append(out, domain.Employee{ID: a.ID, Username: a.Username, Role: a.Role})
		}
	}
	return out, nil
}

func (m *memAccounts) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.Account, []string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, nil, domain.ErrUserNotFound
	}
	var demoted []string
	if role == domain.RoleCreator {
		demoted = m.demoteLocked(id)
	}
	a.Role = role
	out := *a
	return &out, demoted, nil
}

func (m *memAccounts) DemoteCreators(_ context.Context, keepID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.demoteLocked(keepID), nil
}

func (m *memAccounts) demoteLocked(keepID string) []string {
	var ids []string
	for id, a := range m.byID {
		if id != keepID && a.Role == domain.RoleCreator {
			a.Role = domain.RoleManager
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (m *memAccounts) SetReputation(_ context.Context, id string, value int) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	a.Reputation = value
	out := *a
	return &out, nil
}

func (m *memAccounts) SetAvatar(_ context.Context, id string, avatar *string) (*domain.Account, *string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, nil, domain.ErrUserNotFound
	}
	prev := a.Avatar
	a.Avatar = avatar
	out := *a
	return &out, prev, nil
}

func (m *memAccounts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.byID, id)
	return nil
}

// memVotes applies votes against memAccounts the same way the SQL
// transaction does.
type memVotes struct {
	mu       sync.Mutex
	accounts *memAccounts
	votes    map[[2]string]domain.VoteDirection
}

func newMemVotes(accounts *memAccounts) *memVotes {
	return &memVotes{accounts: accounts, votes: map[[2]string]domain.VoteDirection{}}
}

func (m *memVotes) ApplyVote(_ context.Context, voterID, targetID string, dir domain.VoteDirection) (*domain.VoteResult, domain.VoteTransition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accounts.mu.Lock()
	target, ok := m.accounts.byID[targetID]
	m.accounts.mu.Unlock()
	if !ok {
		return nil, domain.VoteTransition{}, domain.ErrUserNotFound
	}

	key := [2]string{voterID, targetID}
	var existing *domain.VoteDirection
	if d, ok := m.votes[key]; ok {
		existing = &d
	}
	tr := domain.ResolveVote(existing, dir)
	if tr.Current == nil {
		delete(m.votes, key)
	} else {
		m.votes[key] = *tr.Current
	}

	m.accounts.mu.Lock()
	target.Reputation += tr.Delta
	rep := target.Reputation
	m.accounts.mu.Unlock()

	return &domain.VoteResult{Reputation: rep, HasVoted: tr.Current != nil, VoteType: tr.Current}, tr, nil
}

func (m *memVotes) Status(_ context.Context, voterID, targetID string) (*domain.VoteStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.votes[[2]string{voterID, targetID}]
	if !ok {
		return &domain.VoteStatus{}, nil
	}
	return &domain.VoteStatus{HasVoted: true, VoteType: &d}, nil
}

// memImages is an ImageStore that keeps files in a map.
type memImages struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
	saveErr error
}

func newMemImages() *memImages { return &memImages{files: map[string][]byte{}} }

func (m *memImages) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ref := "/uploads/" + name
	m.files[ref] = data
	return ref, nil
}

func (m *memImages) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, ref)
	m.deleted = append(m.deleted, ref)
	return nil
}

// recordingAudit keeps every audit event it receives.
type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
}

func (r *recordingAudit) Record(_ context.Context, ev domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recordingAudit) actions() []domain.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Action)
	}
	return out
}

// pngBytes is the smallest header mimetype recognises as image/png.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func creator() *domain.Actor {
	return &domain.Actor{ID: "c-1", Username: bootstrapName, Role: domain.RoleCreator}
}
