package storage

import "context"

// MediaStore is the external media collaborator: the core only records the
// public URL it returns.
type MediaStore interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, name string) error
}
