package artifact_loader

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	GzipLoaderIdentifier = "gzip_loader"
	gzipExtension        = ".gz"
)

// GzipLoader decompresses a gzip object
type GzipLoader struct{}

func NewGzipLoader() Loader {
	return &GzipLoader{}
}

func (GzipLoader) Identifier() string {
	return GzipLoaderIdentifier
}

func (GzipLoader) Load(_ context.Context, key string, data []byte) ([]byte, error) {
	gzReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error creating gzip reader for %s: %w", key, err)
	}
	defer gzReader.Close()

	res, err := io.ReadAll(gzReader)
	if err != nil {
		return nil, fmt.Errorf("error decompressing %s: %w", key, err)
	}
	return res, nil
}

func (GzipLoader) TrimExtension(name string) string {
	if strings.HasSuffix(strings.ToLower(name), gzipExtension) {
		return name[:len(name)-len(gzipExtension)]
	}
	return name
}
