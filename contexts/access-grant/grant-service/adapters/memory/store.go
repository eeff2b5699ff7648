package memory

import (
	"context"
	"sync"
	"time"

	"repogrant/contexts/access-grant/grant-service/domain/entities"
)

// Store is the in-memory GrantStore adapter. It mirrors the postgres
// adapter's contract, including returning the previous row from Put and
// Remove, and is used for tests and memory-backed deployments.
type Store struct {
	mu     sync.RWMutex
	grants map[string]entities.Grant
}

func NewStore() *Store {
	return &Store{grants: make(map[string]entities.Grant)}
}

func (s *Store) Get(_ context.Context, purchaseID string) (entities.Grant, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grant, ok := s.grants[purchaseID]
	return grant, ok, nil
}

func (s *Store) Put(_ context.Context, purchaseID string, identityHandle string, now time.Time) (entities.Grant, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.grants[purchaseID]
	next := entities.Grant{
		PurchaseID:     purchaseID,
		IdentityHandle: identityHandle,
		GrantedAt:      now,
		UpdatedAt:      now,
	}
	if existed {
		next.GrantedAt = prev.GrantedAt
	}
	s.grants[purchaseID] = next
	return prev, existed, nil
}

func (s *Store) Remove(_ context.Context, purchaseID string) (entities.Grant, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.grants[purchaseID]
	delete(s.grants, purchaseID)
	return prev, existed, nil
}

// Len reports the number of stored grants; test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.grants)
}
