package store

import (
	"maps"
	"sync"
)

// Durable keys, all under the chorequest_ namespace.
const (
	KeyAPIURL       = "chorequest_api_url"
	KeyAPIKey       = "chorequest_api_key"
	KeySelectedUser = "chorequest_selected_user"
	KeyDarkMode     = "chorequest_dark_mode"
)

// DefaultAPIURL is where a fresh install looks for the backend.
const DefaultAPIURL = "http://localhost:8000"

// MemoryBackend keeps everything in a map. Used for tests and for sessions
// that must not touch disk.
type MemoryBackend struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{m: map[string]string{}}
}

func (b *MemoryBackend) Get(key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.m[key]
	return v, ok, nil
}

func (b *MemoryBackend) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.m == nil {
		b.m = map[string]string{}
	}
	b.m[key] = value
	return nil
}

// Snapshot copies the current contents.
func (b *MemoryBackend) Snapshot() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.m)
}
