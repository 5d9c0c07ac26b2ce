package auth

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/libreton/libreton-api/internal/types"
)

var _ SessionStore = (*CacheSessionStore)(nil)

// SessionStore is the ephemeral token -> user-snapshot mapping. Entries
// carry an absolute expiry fixed at creation; a lookup at or past that
// instant must behave as if the entry were never there. Implementations must
// be safe for concurrent use.
type SessionStore interface {
	Set(token string, info types.UserInfo, expiresAt time.Time)
	Get(token string) (types.UserInfo, bool)
	Remove(token string)
}

type sessionEntry struct {
	info      types.UserInfo
	expiresAt time.Time
}

// CacheSessionStore keeps sessions in an in-process go-cache instance.
// Nothing survives a restart, which is the intended lifecycle.
type CacheSessionStore struct {
	cache *cache.Cache
}

// NewCacheSessionStore builds a store whose janitor sweeps expired entries
// periodically; correctness does not depend on the sweep, only memory use.
func NewCacheSessionStore(defaultTTL time.Duration) *CacheSessionStore {
	return &CacheSessionStore{
		cache: cache.New(defaultTTL, 10*time.Minute),
	}
}

// Set inserts or overwrites the entry. Overwriting an unexpired token is
// permitted. An expiry already in the past stores nothing.
func (s *CacheSessionStore) Set(token string, info types.UserInfo, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	s.cache.Set(types.SessionKeyPrefix+token, sessionEntry{info: info, expiresAt: expiresAt}, ttl)
}

// Get returns the snapshot if the entry exists and has not reached its
// absolute expiry. The go-cache TTL already evicts lazily; the explicit
// expiresAt check keeps the boundary exact (t >= expiresAt is absent).
func (s *CacheSessionStore) Get(token string) (types.UserInfo, bool) {
	v, found := s.cache.Get(types.SessionKeyPrefix + token)
	if !found {
		return types.UserInfo{}, false
	}
	entry := v.(sessionEntry)
	if !time.Now().Before(entry.expiresAt) {
		s.cache.Delete(types.SessionKeyPrefix + token)
		return types.UserInfo{}, false
	}
	return entry.info, true
}

// Remove deletes the entry. Removing an absent token is not an error.
func (s *CacheSessionStore) Remove(token string) {
	s.cache.Delete(types.SessionKeyPrefix + token)
}
