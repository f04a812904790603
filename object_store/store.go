// Package object_store provides the object storage collaborators used to read input files
// and write cleaned output and reports
package object_store

import (
	"context"
	"fmt"
)

// Reader fetches the full contents of an object
type Reader interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
}

// Writer stores an object in a single call, so a reader never observes a partial object
type Writer interface {
	Put(ctx context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) error
}

type Store interface {
	Reader
	Writer
	// Identifier returns the url scheme of the store, e.g. s3
	Identifier() string
	Close() error
}

// Location formats the url of an object in a store
func Location(s Store, bucket, key string) string {
	return fmt.Sprintf("%s://%s/%s", s.Identifier(), bucket, key)
}
