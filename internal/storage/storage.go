// Package storage is the object store that receives portfolio backups.
package storage

import (
	"context"
	"io"
	"time"
)

// PutOptions describe an upload. Size is the exact byte count, or -1 when
// unknown, in which case the backend falls back to a multipart upload.
type PutOptions struct {
	Size               int64
	ContentType        string
	ContentEncoding    string
	ContentDisposition string
	Metadata           map[string]string
}

// Object is a stored object as reported by the backend.
type Object struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

// Storage is an S3-compatible bucket scoped to one application.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (Object, error)
	// List returns the objects whose key starts with prefix, in no particular order.
	List(ctx context.Context, prefix string) ([]Object, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a download URL that stays valid for expiry.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
