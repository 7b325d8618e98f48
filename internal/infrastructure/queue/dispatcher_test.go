package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/handyhub/marketplace-system/internal/core/domain"
	"github.com/handyhub/marketplace-system/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// recordingService collects recorded events and closes done once target
// events have arrived.
type recordingService struct {
	mu     sync.Mutex
	events []ports.RequestEvent
	target int
	done   chan struct{}
	closed bool
}

func newRecordingService(target int) *recordingService {
	return &recordingService{target: target, done: make(chan struct{})}
}

func (s *recordingService) Record(ctx context.Context, event ports.RequestEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if !s.closed && len(s.events) >= s.target {
		s.closed = true
		close(s.done)
	}
	return nil
}

func (s *recordingService) ListMine(ctx context.Context, caller ports.Identity) ([]*domain.Notification, error) {
	return nil, nil
}

func (s *recordingService) wait(t *testing.T) {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for events")
	}
}

func TestDispatcher_ShardIndexIsDeterministic(t *testing.T) {
	d := NewDispatcher(4, newRecordingService(0), discardLogger)

	first := d.shardIndex("req_42")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("req_42"); got != first {
			t.Fatalf("shard index changed: %d vs %d", first, got)
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestDispatcher_PerRequestOrderPreserved(t *testing.T) {
	const perRequest = 20
	svc := newRecordingService(2 * perRequest)

	d := NewDispatcher(4, svc, discardLogger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// Interleave events for two requests; ordering must hold per request even
	// if the two streams race across workers.
	for i := 0; i < perRequest; i++ {
		d.Enqueue(ports.RequestEvent{
			RequestID:   "req_a",
			RecipientID: "client_1",
			Kind:        domain.NoteRequestAccepted,
			Message:     fmt.Sprintf("a-%d", i),
		})
		d.Enqueue(ports.RequestEvent{
			RequestID:   "req_b",
			RecipientID: "client_2",
			Kind:        domain.NoteRequestAccepted,
			Message:     fmt.Sprintf("b-%d", i),
		})
	}

	svc.wait(t)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	nextA, nextB := 0, 0
	for _, ev := range svc.events {
		switch ev.RequestID {
		case "req_a":
			if want := fmt.Sprintf("a-%d", nextA); ev.Message != want {
				t.Fatalf("req_a out of order: got %q, want %q", ev.Message, want)
			}
			nextA++
		case "req_b":
			if want := fmt.Sprintf("b-%d", nextB); ev.Message != want {
				t.Fatalf("req_b out of order: got %q, want %q", ev.Message, want)
			}
			nextB++
		}
	}
	if nextA != perRequest || nextB != perRequest {
		t.Fatalf("missing events: a=%d b=%d", nextA, nextB)
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, newRecordingService(0), discardLogger)
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
