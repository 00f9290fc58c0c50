package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
	"github.com/strivezine/blog-system/internal/infrastructure/security"
)

type stubAuthorRepo struct {
	mu      sync.Mutex
	authors map[string]*domain.Author
	seq     int
}

func newStubAuthorRepo() *stubAuthorRepo {
	return &stubAuthorRepo{authors: make(map[string]*domain.Author)}
}

func cloneAuthor(a *domain.Author) *domain.Author {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAuthorRepo) Create(_ context.Context, a *domain.Author) (*domain.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.authors {
		if existing.Email == a.Email || (a.GoogleID != "" && existing.GoogleID == a.GoogleID) {
			return nil, domain.ErrAuthorExists
		}
	}
	r.seq++
	stored := cloneAuthor(a)
	stored.ID = fmt.Sprintf("author-%d", r.seq)
	r.authors[stored.ID] = stored
	return cloneAuthor(stored), nil
}

func (r *stubAuthorRepo) FindByID(_ context.Context, id string) (*domain.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.authors[id]; ok {
		return cloneAuthor(a), nil
	}
	return nil, domain.ErrAuthorNotFound
}

func (r *stubAuthorRepo) FindByEmail(_ context.Context, email string) (*domain.Author, error) {
	return r.findBy(func(a *domain.Author) bool { return a.Email == email })
}

func (r *stubAuthorRepo) FindByGoogleID(_ context.Context, googleID string) (*domain.Author, error) {
	return r.findBy(func(a *domain.Author) bool { return a.GoogleID == googleID })
}

func (r *stubAuthorRepo) findBy(match func(*domain.Author) bool) (*domain.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.authors {
		if match(a) {
			return cloneAuthor(a), nil
		}
	}
	return nil, domain.ErrAuthorNotFound
}

func (r *stubAuthorRepo) Update(_ context.Context, a *domain.Author) (*domain.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authors[a.ID]; !ok {
		return nil, domain.ErrAuthorNotFound
	}
	for id, existing := range r.authors {
		if id != a.ID && existing.Email == a.Email {
			return nil, domain.ErrAuthorExists
		}
	}
	r.authors[a.ID] = cloneAuthor(a)
	return cloneAuthor(a), nil
}

func (r *stubAuthorRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authors[id]; !ok {
		return domain.ErrAuthorNotFound
	}
	delete(r.authors, id)
	return nil
}

func (r *stubAuthorRepo) List(_ context.Context, q ports.ListQuery) ([]*domain.Author, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*domain.Author, 0, len(r.authors))
	for _, a := range r.authors {
		if role, ok := q.Filters["role"]; ok && string(a.Role) != role {
			continue
		}
		all = append(all, cloneAuthor(a))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if q.Offset >= len(all) {
		return []*domain.Author{}, total, nil
	}
	end := q.Offset + q.Limit
	if q.Limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[q.Offset:end], total, nil
}

func (r *stubAuthorRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.authors)
}

type stubLimiter struct {
	max      int
	failures map[string]int
	lastIP   string
}

func newStubLimiter(max int) *stubLimiter {
	return &stubLimiter{max: max, failures: make(map[string]int)}
}

func (l *stubLimiter) Check(_ context.Context, email, ip string) error {
	l.lastIP = ip
	if l.failures[email] >= l.max {
		return domain.ErrTooManyAttempts
	}
	return nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, email, ip string) error {
	l.lastIP = ip
	l.failures[email]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, email, ip string) error {
	l.lastIP = ip
	delete(l.failures, email)
	return nil
}

type stubRecorder struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *stubRecorder) Record(e domain.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *stubRecorder) types() []domain.AuditEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditEventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *stubRecorder) last() domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return domain.AuditEvent{}
	}
	return r.events[len(r.events)-1]
}

func newTestHasher(t *testing.T) *security.BcryptHasher {
	t.Helper()
	h, err := security.NewBcryptHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	return h
}

func newTestTokens(t *testing.T) *security.TokenManager {
	t.Helper()
	m, err := security.NewTokenManager(security.TokenConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "blog-api"})
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return m
}

// seedAuthor stores an author with a hashed password directly in the repo.
func seedAuthor(t *testing.T, repo *stubAuthorRepo, hasher ports.PasswordHasher, email, password string, role domain.Role) *domain.Author {
	t.Helper()
	a := &domain.Author{FirstName: "Test", LastName: "Author", Email: email, Role: role}
	if password != "" {
		hash, err := hasher.Hash(password)
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		a.PasswordHash = hash
	}
	created, err := repo.Create(context.Background(), a)
	if err != nil {
		t.Fatalf("seed author: %v", err)
	}
	return created
}
