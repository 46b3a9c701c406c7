// Package blob stores exported checkpoints and other opaque artifacts behind
// a small S3-like interface with filesystem, memory and S3 drivers.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Driver identifies a concrete blob storage backend implementation.
type Driver string

const (
	// DriverFilesystem stores blobs under a local directory.
	DriverFilesystem Driver = "fs"
	// DriverMemory keeps blobs in process memory.
	DriverMemory Driver = "memory"
	// DriverS3 talks to an S3 or MinIO compatible bucket.
	DriverS3 Driver = "s3"
)

// PutOptions specifies optional parameters for Put.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Info describes a stored blob.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size_bytes"`
	ContentType  string            `json:"content_type,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
}

// Store is the blob abstraction used by the export commands.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Delete(ctx context.Context, key string) (bool, error)
	Driver() Driver
}

var (
	// ErrExists is returned by Put when the key is already taken.
	ErrExists = errors.New("blob: already exists")
	// ErrNotFound is returned by Get for a missing key.
	ErrNotFound = errors.New("blob: not found")
)

// Options selects and configures a driver.
type Options struct {
	Driver string
	Root   string
	S3     S3Options
}

// Open builds the store named by opts.Driver. An empty driver means fs.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch Driver(opts.Driver) {
	case "", DriverFilesystem:
		return NewFS(opts.Root)
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("unknown blob driver %q", opts.Driver)
	}
}

func cloneMetadata(md map[string]string) map[string]string {
	if len(md) == 0 {
		return nil
	}
	out := make(map[string]string, len(md))
	for k, v := range md {
		out[k] = v
	}
	return out
}
