// Package storage holds the object-store abstraction for evidence bytes.
// Objects are content-addressed by their SHA-256 digest, so identical
// content uploaded twice occupies one object while every upload still gets
// its own metadata row. There is no delete: materials are permanent
// evidence. Implementations stream; no local disk.
package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1
// and the implementation will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an S3-compatible object storage client for evidence bytes.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Exists reports whether an object is already stored under key, letting
	// the dedup path skip re-uploading identical content.
	Exists(ctx context.Context, key string) (bool, error)
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// MaterialKey is the content-addressed object key for an evidence digest.
func MaterialKey(sha256Hex string) string {
	return "materials/" + sha256Hex
}
