package storage

import "context"

// ObjectRef identifies a stored object and where to fetch it.
type ObjectRef struct {
	ID  string
	URL string
}

// ObjectStore hosts uploaded deduction documents. Calls are synchronous;
// callers own the local temp file and must remove it whatever the outcome.
type ObjectStore interface {
	Upload(ctx context.Context, localPath, folder string) (*ObjectRef, error)
	Delete(ctx context.Context, id string) error
}
