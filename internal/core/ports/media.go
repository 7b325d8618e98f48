package ports

import "context"

// MediaStore issues time-limited URLs for uploading and fetching image blobs.
// Keys are opaque everywhere outside this boundary.
type MediaStore interface {
	UploadURL(ctx context.Context, key string) (string, error)
	DownloadURL(ctx context.Context, key string) (string, error)
}

// UploadSlot pairs a freshly minted media key with its one-time upload URL.
type UploadSlot struct {
	Key string
	URL string
}

// MediaService owns media key policy on top of the store.
type MediaService interface {
	// CreateUploadSlot mints a key for the given file name and returns a
	// presigned upload URL for it.
	CreateUploadSlot(ctx context.Context, fileName string) (*UploadSlot, error)
	// ResolveURL returns a presigned download URL for an existing key.
	ResolveURL(ctx context.Context, key string) (string, error)
}
