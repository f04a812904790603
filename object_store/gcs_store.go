package object_store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"cloud.google.com/go/storage"
	"github.com/turbot/tailpipe-cleanse/connection"
	"github.com/turbot/tailpipe-cleanse/errhandling"
	"google.golang.org/api/googleapi"
)

const GcsStoreIdentifier = "gs"

// GcsStore is a [Store] backed by a Google Cloud Storage bucket
type GcsStore struct {
	client *storage.Client
}

func NewGcsStore(ctx context.Context, conn *connection.GcpConnection) (*GcsStore, error) {
	if conn == nil {
		conn = &connection.GcpConnection{}
	}
	opts, err := conn.GetClientOptions(ctx)
	if err != nil {
		return nil, err
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client, %w", err)
	}
	slog.Info("Initialized GcsStore", "project", conn.GetProject())
	return &GcsStore{client: client}, nil
}

func (s *GcsStore) Identifier() string {
	return GcsStoreIdentifier
}

func (s *GcsStore) Close() error {
	return s.client.Close()
}

func (s *GcsStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	r, err := s.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, classifyGcsError("get", bucket, key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, classifyGcsError("get", bucket, key, err)
	}
	return data, nil
}

func (s *GcsStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) error {
	w := s.client.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = metadata

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return classifyGcsError("put", bucket, key, err)
	}
	// the object only becomes visible once the writer is closed
	if err := w.Close(); err != nil {
		return classifyGcsError("put", bucket, key, err)
	}
	return nil
}

func classifyGcsError(op, bucket, key string, err error) error {
	return errhandling.NewStorageError(gcsErrorKind(err), op, bucket, key, err)
}

func gcsErrorKind(err error) errhandling.StorageErrorKind {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return errhandling.StorageNotFound
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if kind, ok := statusKind(apiErr.Code); ok {
			return kind
		}
	}
	return transportKind(err)
}
