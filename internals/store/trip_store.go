package store

import (
	"errors"
	"sync"

	"github.com/Yahia89/meditrans-sub003/internals/domain"
)

type TripStore struct {
	mu sync.RWMutex
	m  map[string]*domain.Trip
}

func NewTripStore() *TripStore { return &TripStore{m: make(map[string]*domain.Trip)} }

var Trips = NewTripStore()

func (s *TripStore) Create(t *domain.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[t.ID] = t
}

func (s *TripStore) Get(id string) (*domain.Trip, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.m[id]
	return t, ok
}

func (s *TripStore) Update(t *domain.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[t.ID]; !ok {
		return errors.New("not found")
	}
	s.m[t.ID] = t
	return nil
}

func (s *TripStore) ListByOrg(orgID string) []*domain.Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Trip
	for _, t := range s.m {
		if t.OrgID == orgID {
			out = append(out, t)
		}
	}
	return out
}
