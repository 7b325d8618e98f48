package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/handyhub/marketplace-system/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub user repository (shared by matching, auth and user tests)
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[string]*domain.User
	byEmail   map[string]*domain.User
	updateErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	if _, exists := r.byEmail[u.Email]; exists {
		return domain.ErrEmailTaken
	}
	clone := *u
	r.byID[u.ID] = &clone
	r.byEmail[u.Email] = &clone
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	clone := *u
	r.byID[u.ID] = &clone
	r.byEmail[u.Email] = &clone
	return nil
}

func seedUser(repo *stubUserRepo, id, role string, skills ...string) *domain.User {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	u := &domain.User{
		ID:        id,
		Email:     id + "@example.com",
		Name:      "Test User",
		Role:      role,
		Skills:    skills,
		CreatedAt: now,
		UpdatedAt: now,
	}
	repo.byID[id] = u
	repo.byEmail[u.Email] = u
	return u
}

// ---------------------------------------------------------------------------
// ListAvailable tests
// ---------------------------------------------------------------------------

func TestMatchingService_ListAvailable_SkillFilter(t *testing.T) {
	requests := newStubRequestRepo()
	users := newStubUserRepo()
	svc := NewMatchingService(requests, users, discardLogger)

	plumbing := seedRequest(requests, "r1", "client_1", domain.StatusPending, "")
	plumbing.ServiceType = "Plumber"
	wiring := seedRequest(requests, "r2", "client_2", domain.StatusPending, "")
	wiring.ServiceType = "Electrician"

	seedUser(users, "tech_1", domain.RoleTechnician, "Plumber")
	seedUser(users, "tech_2", domain.RoleTechnician, "Electrician")

	list, err := svc.ListAvailable(context.Background(), techCaller("tech_1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != "r1" {
		t.Errorf("tech_1 should see only the plumbing request, got %v", list)
	}

	list, err = svc.ListAvailable(context.Background(), techCaller("tech_2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != "r2" {
		t.Errorf("tech_2 should see only the electrical request, got %v", list)
	}
}

func TestMatchingService_ListAvailable_NoSkillsSeesAll(t *testing.T) {
	requests := newStubRequestRepo()
	users := newStubUserRepo()
	svc := NewMatchingService(requests, users, discardLogger)

	seedRequest(requests, "r1", "client_1", domain.StatusPending, "").ServiceType = "Plumber"
	seedRequest(requests, "r2", "client_2", domain.StatusPending, "").ServiceType = "Electrician"
	seedUser(users, "tech_1", domain.RoleTechnician)

	list, err := svc.ListAvailable(context.Background(), techCaller("tech_1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("a technician with no skills sees everything, got %d", len(list))
	}
}

func TestMatchingService_ListAvailable_ExcludesAssignedAndClosed(t *testing.T) {
	requests := newStubRequestRepo()
	users := newStubUserRepo()
	svc := NewMatchingService(requests, users, discardLogger)

	seedRequest(requests, "open", "client_1", domain.StatusPending, "")
	seedRequest(requests, "taken", "client_1", domain.StatusAccepted, "tech_9")
	seedRequest(requests, "running", "client_1", domain.StatusInProgress, "tech_9")
	seedRequest(requests, "done", "client_1", domain.StatusCompleted, "tech_9")
	seedRequest(requests, "dropped", "client_1", domain.StatusCancelled, "")
	// Inconsistent on purpose: pending but somehow assigned must never show up.
	seedRequest(requests, "odd", "client_1", domain.StatusPending, "tech_9")

	seedUser(users, "tech_1", domain.RoleTechnician)

	list, err := svc.ListAvailable(context.Background(), techCaller("tech_1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != "open" {
		t.Errorf("only the open request should be listed, got %v", list)
	}
}

func TestMatchingService_ListAvailable_NewestFirst(t *testing.T) {
	requests := newStubRequestRepo()
	users := newStubUserRepo()
	svc := NewMatchingService(requests, users, discardLogger)

	seedRequest(requests, "oldest", "client_1", domain.StatusPending, "")
	seedRequest(requests, "middle", "client_1", domain.StatusPending, "")
	seedRequest(requests, "newest", "client_1", domain.StatusPending, "")
	seedUser(users, "tech_1", domain.RoleTechnician)

	list, err := svc.ListAvailable(context.Background(), techCaller("tech_1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(list))
	}
	want := []string{"newest", "middle", "oldest"}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("position %d: want %q, got %q", i, id, list[i].ID)
		}
	}
}

func TestMatchingService_ListAvailable_SkillMatchIsCaseSensitive(t *testing.T) {
	requests := newStubRequestRepo()
	users := newStubUserRepo()
	svc := NewMatchingService(requests, users, discardLogger)

	seedRequest(requests, "r1", "client_1", domain.StatusPending, "").ServiceType = "Plumber"
	seedUser(users, "tech_1", domain.RoleTechnician, "plumber")

	list, err := svc.ListAvailable(context.Background(), techCaller("tech_1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("skill matching is exact and case-sensitive, got %v", list)
	}
}

func TestMatchingService_ListAvailable_ClientForbidden(t *testing.T) {
	requests := newStubRequestRepo()
	users := newStubUserRepo()
	svc := NewMatchingService(requests, users, discardLogger)
	seedUser(users, "client_1", domain.RoleClient)

	_, err := svc.ListAvailable(context.Background(), clientCaller("client_1"))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for client role, got %v", err)
	}
}

func TestMatchingService_ListAvailable_StoredRoleRechecked(t *testing.T) {
	requests := newStubRequestRepo()
	users := newStubUserRepo()
	svc := NewMatchingService(requests, users, discardLogger)

	// The token still says technician, but the stored profile switched to client.
	seedUser(users, "tech_1", domain.RoleClient)

	_, err := svc.ListAvailable(context.Background(), techCaller("tech_1"))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden when the stored role changed, got %v", err)
	}
}

func TestMatchingService_ListAvailable_UnknownUser(t *testing.T) {
	requests := newStubRequestRepo()
	users := newStubUserRepo()
	svc := NewMatchingService(requests, users, discardLogger)

	_, err := svc.ListAvailable(context.Background(), techCaller("ghost"))
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
