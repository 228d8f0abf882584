package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by Storage.Load when the key holds nothing.
var ErrNotFound = errors.New("cart: no persisted value")

// Storage is a durable key-value slot holding the serialized item list.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// StorageError wraps a failed read, decode or write of the persisted cart. It is
// always recovered inside the Store and only ever logged.
type StorageError struct {
	Op  string // load, decode or save
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("cart storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// MemoryStorage keeps values in process memory.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: map[string][]byte{}}
}

func (m *MemoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryStorage) Save(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	m.mu.Lock()
	m.data[key] = v
	m.mu.Unlock()
	return nil
}
