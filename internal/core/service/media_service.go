package service

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/handyhub/marketplace-system/internal/core/domain"
	"github.com/handyhub/marketplace-system/internal/core/ports"
)

// extPattern accepts short alphanumeric file extensions like ".jpg" or ".png".
var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,5}$`)

type mediaService struct {
	store ports.MediaStore
	log   zerolog.Logger
}

// NewMediaService returns the MediaService implementation.
func NewMediaService(store ports.MediaStore, log zerolog.Logger) ports.MediaService {
	return &mediaService{store: store, log: log}
}

// CreateUploadSlot mints a fresh media key and returns a presigned upload URL
// for it. Only the original file's extension survives into the key.
func (s *mediaService) CreateUploadSlot(ctx context.Context, fileName string) (*ports.UploadSlot, error) {
	key := uuid.NewString() + safeExt(fileName)
	url, err := s.store.UploadURL(ctx, key)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to presign upload")
		return nil, fmt.Errorf("create upload slot: %w", err)
	}
	return &ports.UploadSlot{Key: key, URL: url}, nil
}

// ResolveURL returns a presigned download URL for an existing media key.
func (s *mediaService) ResolveURL(ctx context.Context, key string) (string, error) {
	if key == "" || strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return "", fmt.Errorf("resolve media url: %w (malformed key)", domain.ErrValidation)
	}
	url, err := s.store.DownloadURL(ctx, key)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to presign download")
		return "", fmt.Errorf("resolve media url: %w", err)
	}
	return url, nil
}

// safeExt returns the lowercased extension of name when it looks like a plain
// file extension, and nothing otherwise.
func safeExt(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if extPattern.MatchString(ext) {
		return ext
	}
	return ""
}
