// Package artifact_loader turns the raw bytes of a downloaded object into delimited text,
// performing any decompression implied by the object key
package artifact_loader

import (
	"context"
)

// Loader decodes the contents of an object
// Loaders provided: [GzipLoader], [FileLoader]
type Loader interface {
	Identifier() string
	// Load decodes the object data, performing any necessary decompression
	Load(ctx context.Context, key string, data []byte) ([]byte, error)
	// TrimExtension removes the extension handled by the loader from a file name
	TrimExtension(name string) string
}
