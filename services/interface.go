package services

import "context"

// Storage is the slice of the object-storage backend the services need.
// platform/storage.Service satisfies it; tests substitute fakes.
type Storage interface {
	PresignedUpload(ctx context.Context, key, fileType string, maxSizeBytes int64) (string, map[string]string, error)
	PresignedDownload(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
}
