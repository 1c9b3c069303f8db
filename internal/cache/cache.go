// Package cache provides the session query cache shared between views.
//
// Mutating operations (rename, mux, scrape) never write their results here.
// They invalidate the affected partitions so the next read goes back to the
// server, keeping the client and the file system in agreement.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time // zero means no expiry
}

// Store is an in-memory key-value cache with per-entry TTL and explicit
// invalidation. It is injected into the models that need it; there is no
// package-level instance.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
}

// New creates an empty cache store.
func New() *Store {
	return &Store{entries: make(map[string]entry)}
}

// Get returns the cached value for key if present and still fresh.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key. A ttl <= 0 means the entry lives until it is
// explicitly invalidated.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	s.entries[key] = e
}

// Invalidate removes the given keys.
func (s *Store) Invalidate(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.entries, key)
	}
}

// InvalidatePrefix removes every entry whose key starts with prefix.
func (s *Store) InvalidatePrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
}

// Len returns the number of live entries, counting expired ones that have
// not been touched since expiry.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Cache key partitions. Downstream views re-read these after a mutation
// invalidates them.

// ShowListKey keys the library-wide show listing.
func ShowListKey() string {
	return "show-list"
}

// ShowDetailKey keys a single show's detail record.
func ShowDetailKey(showID int) string {
	return fmt.Sprintf("show-detail:%d", showID)
}

// EpisodeListKey keys a show's episode listing.
func EpisodeListKey(showID int) string {
	return fmt.Sprintf("episode-list:%d", showID)
}

// PresetCatalogKey keys the server-defined rename preset catalog.
func PresetCatalogKey() string {
	return "rename-presets"
}

// PreviewKey keys a rename preview by the exact input tuple. An absent
// space replacement is encoded differently from any token value, including
// the empty string, so the two can never collide.
func PreviewKey(showID int, pattern string, replacement *string) string {
	repl := "keep"
	if replacement != nil {
		repl = "r=" + *replacement
	}
	return fmt.Sprintf("rename-preview:%d:%s:%s", showID, pattern, repl)
}
