package revocation

import (
	"context"
	"sync"
	"time"

	"github.com/itchan-dev/itblog/shared/logger"
)

// Set is an in-process revocation store. Entries are never pruned: ids of
// tokens that already expired stay in the set for the life of the process.
type Set struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

var _ Store = (*Set)(nil)

func NewSet() *Set {
	return &Set{revoked: make(map[string]time.Time)}
}

func (s *Set) Revoke(_ context.Context, tokenId string, expiresAt time.Time) error {
	s.mu.Lock()
	s.revoked[tokenId] = expiresAt
	size := len(s.revoked)
	s.mu.Unlock()

	logger.Log.Debug("token revoked",
		"component", "revocation_set",
		"jti", tokenId,
		"entries", size)
	return nil
}

func (s *Set) IsRevoked(_ context.Context, tokenId string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[tokenId]
	return ok, nil
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.revoked)
}
