package storage

import (
	"context"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service archives user data exports in remote object storage.
type Service interface {
	// PutJSON marshals v and stores it under key, returning the object URI.
	PutJSON(ctx context.Context, bucket, key string, v any) (string, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	DeletePrefix(ctx context.Context, bucket, prefix string) error
}
