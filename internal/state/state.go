package state

import (
	"sync"

	"github.com/rook-computer/bannercast/internal/banner"
)

// Snapshot is one immutable version of a context's configuration.
type Snapshot struct {
	Config  banner.Config
	Version uint64
}

// Store holds the current configuration of one context (editor or overlay).
// Every write swaps in a complete value, so readers never see a partially
// applied change.
type Store struct {
	mu      sync.RWMutex
	current Snapshot
}

func NewStore(initial banner.Config) *Store {
	return &Store{current: Snapshot{Config: initial}}
}

func (store *Store) Snapshot() Snapshot {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.current
}

func (store *Store) Config() banner.Config {
	return store.Snapshot().Config
}

// Update applies fn to a copy of the current configuration and stores the
// result as the next version.
func (store *Store) Update(fn func(cfg *banner.Config)) Snapshot {
	store.mu.Lock()
	defer store.mu.Unlock()
	next := store.current.Config
	fn(&next)
	store.current = Snapshot{Config: next, Version: store.current.Version + 1}
	return store.current
}

// Replace stores cfg wholesale as the next version.
func (store *Store) Replace(cfg banner.Config) Snapshot {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.current = Snapshot{Config: cfg, Version: store.current.Version + 1}
	return store.current
}

// Reset stores the default configuration as the next version.
func (store *Store) Reset() Snapshot {
	return store.Replace(banner.Default())
}
