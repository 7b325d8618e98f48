package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/handyhub/marketplace-system/internal/core/domain"
)

type stubMediaStore struct {
	uploadErr   error
	downloadErr error
}

func (s *stubMediaStore) UploadURL(_ context.Context, key string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	return "https://media.example.com/put/" + key, nil
}

func (s *stubMediaStore) DownloadURL(_ context.Context, key string) (string, error) {
	if s.downloadErr != nil {
		return "", s.downloadErr
	}
	return "https://media.example.com/get/" + key, nil
}

func TestMediaService_CreateUploadSlot_KeyFormat(t *testing.T) {
	svc := NewMediaService(&stubMediaStore{}, discardLogger)

	slot, err := svc.CreateUploadSlot(context.Background(), "Kitchen Photo.JPG")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasSuffix(slot.Key, ".jpg") {
		t.Errorf("expected lowercased extension, got %q", slot.Key)
	}
	if _, err := uuid.Parse(strings.TrimSuffix(slot.Key, ".jpg")); err != nil {
		t.Errorf("key must start with a uuid, got %q", slot.Key)
	}
	if !strings.Contains(slot.URL, slot.Key) {
		t.Errorf("upload url must reference the key, got %q", slot.URL)
	}
}

func TestMediaService_CreateUploadSlot_OddExtensionDropped(t *testing.T) {
	svc := NewMediaService(&stubMediaStore{}, discardLogger)

	for _, name := range []string{"noext", "weird.<script>", "trailingdot."} {
		slot, err := svc.CreateUploadSlot(context.Background(), name)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", name, err)
		}
		if _, err := uuid.Parse(slot.Key); err != nil {
			t.Errorf("%q: expected a bare uuid key, got %q", name, slot.Key)
		}
	}
}

func TestMediaService_CreateUploadSlot_StoreError(t *testing.T) {
	svc := NewMediaService(&stubMediaStore{uploadErr: errors.New("s3 unavailable")}, discardLogger)

	if _, err := svc.CreateUploadSlot(context.Background(), "photo.jpg"); err == nil {
		t.Fatal("expected error when the store fails, got nil")
	}
}

func TestMediaService_ResolveURL_Success(t *testing.T) {
	svc := NewMediaService(&stubMediaStore{}, discardLogger)

	url, err := svc.ResolveURL(context.Background(), "a1b2c3.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(url, "a1b2c3.jpg") {
		t.Errorf("download url must reference the key, got %q", url)
	}
}

func TestMediaService_ResolveURL_MalformedKey(t *testing.T) {
	svc := NewMediaService(&stubMediaStore{}, discardLogger)

	for _, key := range []string{"", "a/b.jpg", "..secret", `a\b.jpg`} {
		_, err := svc.ResolveURL(context.Background(), key)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("key %q: expected ErrValidation, got %v", key, err)
		}
	}
}
