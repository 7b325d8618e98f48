package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/handyhub/marketplace-system/internal/core/domain"
	"github.com/handyhub/marketplace-system/internal/core/ports"
)

type stubNotificationRepo struct {
	stored    []*domain.Notification
	insertErr error
	lastLimit int
}

func (r *stubNotificationRepo) Insert(_ context.Context, n *domain.Notification) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	clone := *n
	r.stored = append(r.stored, &clone)
	return nil
}

func (r *stubNotificationRepo) ListByUser(_ context.Context, userID string, limit int) ([]*domain.Notification, error) {
	r.lastLimit = limit
	var matched []*domain.Notification
	for _, n := range r.stored {
		if n.UserID == userID {
			clone := *n
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func TestNotificationService_Record_Success(t *testing.T) {
	repo := &stubNotificationRepo{}
	svc := NewNotificationService(repo, discardLogger)

	occurred := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	err := svc.Record(context.Background(), ports.RequestEvent{
		RequestID:   "r1",
		RecipientID: "client_1",
		Kind:        domain.NoteRequestAccepted,
		Message:     "A technician accepted your Plumber request",
		OccurredAt:  occurred,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.stored) != 1 {
		t.Fatalf("expected 1 stored notification, got %d", len(repo.stored))
	}
	n := repo.stored[0]
	if n.ID == "" {
		t.Error("expected a generated id")
	}
	if n.UserID != "client_1" || n.RequestID != "r1" || n.Kind != domain.NoteRequestAccepted {
		t.Errorf("unexpected notification %+v", n)
	}
	if !n.CreatedAt.Equal(occurred) {
		t.Errorf("created_at must carry the event time, got %v", n.CreatedAt)
	}
}

func TestNotificationService_Record_RepoError(t *testing.T) {
	repo := &stubNotificationRepo{insertErr: errors.New("db unavailable")}
	svc := NewNotificationService(repo, discardLogger)

	err := svc.Record(context.Background(), ports.RequestEvent{RequestID: "r1", RecipientID: "u1"})
	if err == nil {
		t.Fatal("expected error when repo fails, got nil")
	}
}

func TestNotificationService_ListMine_NewestFirst(t *testing.T) {
	repo := &stubNotificationRepo{}
	svc := NewNotificationService(repo, discardLogger)
	base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	for i, kind := range []domain.NotificationKind{
		domain.NoteRequestAccepted,
		domain.NoteRequestStarted,
		domain.NoteRequestCompleted,
	} {
		repo.stored = append(repo.stored, &domain.Notification{
			ID:        string(rune('a' + i)),
			UserID:    "client_1",
			RequestID: "r1",
			Kind:      kind,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	repo.stored = append(repo.stored, &domain.Notification{
		ID: "x", UserID: "client_2", RequestID: "r2", CreatedAt: base,
	})

	list, err := svc.ListMine(context.Background(), clientCaller("client_1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(list))
	}
	if list[0].Kind != domain.NoteRequestCompleted {
		t.Errorf("expected newest first, got %q", list[0].Kind)
	}
	if repo.lastLimit != feedLimit {
		t.Errorf("expected the feed cap %d passed through, got %d", feedLimit, repo.lastLimit)
	}
}
