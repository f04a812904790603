package object_store

import (
	"context"
	"fmt"
	"sync"

	"github.com/turbot/tailpipe-cleanse/errhandling"
	"golang.org/x/exp/maps"
)

const MemoryStoreIdentifier = "mem"

// Object is a stored object together with the attributes it was written with
type Object struct {
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

// MemoryStore is an in-process [Store], used for tests and dry runs
type MemoryStore struct {
	mut     sync.RWMutex
	objects map[string]Object
	// PutErr, if set, is returned by every Put
	PutErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

func (s *MemoryStore) Identifier() string {
	return MemoryStoreIdentifier
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	obj, ok := s.objects[objectId(bucket, key)]
	if !ok {
		return nil, errhandling.NewStorageError(errhandling.StorageNotFound, "get", bucket, key, fmt.Errorf("object does not exist"))
	}
	return append([]byte(nil), obj.Data...), nil
}

func (s *MemoryStore) Put(_ context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	if s.PutErr != nil {
		return errhandling.NewStorageError(errhandling.StorageOther, "put", bucket, key, s.PutErr)
	}
	s.objects[objectId(bucket, key)] = Object{
		Data:        append([]byte(nil), data...),
		ContentType: contentType,
		Metadata:    maps.Clone(metadata),
	}
	return nil
}

// Object returns the stored object, if present
func (s *MemoryStore) Object(bucket, key string) (Object, bool) {
	s.mut.RLock()
	defer s.mut.RUnlock()
	obj, ok := s.objects[objectId(bucket, key)]
	return obj, ok
}

// Keys returns the ids (bucket/key) of all stored objects
func (s *MemoryStore) Keys() []string {
	s.mut.RLock()
	defer s.mut.RUnlock()
	return maps.Keys(s.objects)
}

func objectId(bucket, key string) string {
	return bucket + "/" + key
}
