package cart

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Registry hands out the one Store belonging to each session. It is built once at
// startup and passed to whoever needs carts. Stores idle longer than the TTL are
// dropped from memory and restored from Storage on next use.
type Registry struct {
	mu      sync.Mutex
	stores  *cache.Cache
	storage Storage
	keyFor  func(sessionID string) string
	log     logrus.FieldLogger
}

func NewRegistry(storage Storage, keyFor func(sessionID string) string, idleTTL time.Duration, log logrus.FieldLogger) *Registry {
	return &Registry{
		stores:  cache.New(idleTTL, idleTTL),
		storage: storage,
		keyFor:  keyFor,
		log:     log,
	}
}

func (r *Registry) Store(ctx context.Context, sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.stores.Get(sessionID); ok {
		s := v.(*Store)
		r.stores.SetDefault(sessionID, s) // slide the idle deadline
		return s
	}
	s := NewStore(ctx, r.storage, r.keyFor(sessionID), r.log)
	r.stores.SetDefault(sessionID, s)
	return s
}

// Len is the number of stores currently held in memory.
func (r *Registry) Len() int { return r.stores.ItemCount() }
