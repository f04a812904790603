package object_store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/turbot/tailpipe-cleanse/errhandling"
)

const FileStoreIdentifier = "file"

// FileStore is a [Store] on the local filesystem: a bucket is a directory under the root
// and a key is a relative path within it
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	expanded, err := homedir.Expand(root)
	if err != nil {
		return nil, fmt.Errorf("failed to expand root path %s, %w", root, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path %s, %w", root, err)
	}
	return &FileStore{root: abs}, nil
}

func (s *FileStore) Identifier() string {
	return FileStoreIdentifier
}

func (s *FileStore) Close() error {
	return nil
}

// BucketPath returns the directory holding the objects of a bucket
func (s *FileStore) BucketPath(bucket string) (string, error) {
	if bucket == "" || strings.ContainsAny(bucket, `/\`) || bucket == "." || bucket == ".." {
		return "", fmt.Errorf("invalid bucket name '%s'", bucket)
	}
	return filepath.Join(s.root, bucket), nil
}

// Path returns the filesystem path of an object, rejecting keys which escape the bucket
func (s *FileStore) Path(bucket, key string) (string, error) {
	bucketDir, err := s.BucketPath(bucket)
	if err != nil {
		return "", err
	}
	p := filepath.Join(bucketDir, filepath.FromSlash(key))
	rel, err := filepath.Rel(bucketDir, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return "", fmt.Errorf("invalid object key '%s'", key)
	}
	return p, nil
}

func (s *FileStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	p, err := s.Path(bucket, key)
	if err != nil {
		return nil, errhandling.NewStorageError(errhandling.StorageOther, "get", bucket, key, err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, errhandling.NewStorageError(fileErrorKind(err), "get", bucket, key, err)
	}
	return data, nil
}

// Put writes to a temp file in the target directory and renames it into place.
// Content type and metadata are not persisted.
func (s *FileStore) Put(_ context.Context, bucket, key string, data []byte, _ string, _ map[string]string) error {
	p, err := s.Path(bucket, key)
	if err != nil {
		return errhandling.NewStorageError(errhandling.StorageOther, "put", bucket, key, err)
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errhandling.NewStorageError(fileErrorKind(err), "put", bucket, key, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(p)+".*.tmp")
	if err != nil {
		return errhandling.NewStorageError(fileErrorKind(err), "put", bucket, key, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errhandling.NewStorageError(fileErrorKind(err), "put", bucket, key, err)
	}
	if err := tmp.Close(); err != nil {
		return errhandling.NewStorageError(fileErrorKind(err), "put", bucket, key, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return errhandling.NewStorageError(fileErrorKind(err), "put", bucket, key, err)
	}
	return nil
}

func fileErrorKind(err error) errhandling.StorageErrorKind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return errhandling.StorageNotFound
	case errors.Is(err, fs.ErrPermission):
		return errhandling.StorageAccessDenied
	default:
		return errhandling.StorageOther
	}
}
