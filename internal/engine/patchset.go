package engine

import (
	"sync"
	"time"

	"github.com/ellas-cupcakery/storefront/internal/domain"
)

// DefaultPatchTTL bounds how long an unconfirmed optimistic patch may mask
// server truth before the view reverts to the last store-confirmed values.
const DefaultPatchTTL = 20 * time.Second

// PatchState describes what a patch lookup found
type PatchState int

const (
	PatchNone PatchState = iota
	PatchActive
	PatchExpired
)

type pendingPatch struct {
	patch    domain.OrderPatch
	issuedAt time.Time
}

// PatchSet tracks the pending optimistic patches of one surface. Each
// surface owns exactly one set; there is no sharing across surfaces.
type PatchSet struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]pendingPatch
}

// NewPatchSet creates an empty patch set with the given expiry window
func NewPatchSet(ttl time.Duration) *PatchSet {
	if ttl <= 0 {
		ttl = DefaultPatchTTL
	}
	return &PatchSet{
		ttl:     ttl,
		entries: make(map[string]pendingPatch),
	}
}

// Put records a patch for an order, merging with any patch already in
// flight for the same order and restarting its expiry window
func (s *PatchSet) Put(orderID string, patch domain.OrderPatch, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[orderID]; ok {
		patch = existing.patch.Merge(patch)
	}
	s.entries[orderID] = pendingPatch{patch: patch, issuedAt: now}
}

// Lookup returns the pending patch for an order, removing and flagging it
// when its expiry window has passed
func (s *PatchSet) Lookup(orderID string, now time.Time) (domain.OrderPatch, PatchState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[orderID]
	if !ok {
		return domain.OrderPatch{}, PatchNone
	}
	if now.Sub(entry.issuedAt) > s.ttl {
		delete(s.entries, orderID)
		return entry.patch, PatchExpired
	}
	return entry.patch, PatchActive
}

// Confirm drops the patch for an order once a fetched snapshot reflects it
func (s *PatchSet) Confirm(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, orderID)
}

// SweepExpired removes every patch past its window, returning the ids of
// the orders whose patches were discarded. Covers orders that dropped out
// of the snapshot before their patch could be confirmed.
func (s *PatchSet) SweepExpired(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []string
	for id, entry := range s.entries {
		if now.Sub(entry.issuedAt) > s.ttl {
			delete(s.entries, id)
			expired = append(expired, id)
		}
	}
	return expired
}

// Len returns the number of patches currently in flight
func (s *PatchSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
