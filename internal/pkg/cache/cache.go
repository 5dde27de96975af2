package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store is a process-local response cache with a TTL. Losing it on
// restart is acceptable; staleness after a mutation is not, so mutating
// handlers must call InvalidatePrefix for the scopes they touched.
type Store struct {
	lru *expirable.LRU[string, []byte]
}

func NewStore(size int, ttl time.Duration) *Store {
	return &Store{
		lru: expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

// Key derives the deterministic cache key from route, raw query and
// caller identity.
func Key(route, query, caller string) string {
	sum := sha256.Sum256([]byte(query + "|" + caller))
	return route + "|" + hex.EncodeToString(sum[:])
}

func (s *Store) Get(key string) ([]byte, bool) {
	return s.lru.Get(key)
}

func (s *Store) Set(key string, value []byte) {
	s.lru.Add(key, value)
}

// InvalidatePrefix drops every entry whose key starts with the route
// prefix. Called after mutations whose result the cache could serve
// stale.
func (s *Store) InvalidatePrefix(prefix string) {
	for _, key := range s.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			s.lru.Remove(key)
		}
	}
}

func (s *Store) Purge() {
	s.lru.Purge()
}

func (s *Store) Len() int {
	return s.lru.Len()
}
