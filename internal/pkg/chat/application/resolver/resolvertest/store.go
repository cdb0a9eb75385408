// Package resolvertest provides an in-memory context store for tests.
package resolvertest

import (
	"context"
	"slices"
	"sync"

	"ucoa-chat/internal/pkg/chat/application/resolver"
)

// Store implements every reader port of the resolver package over maps.
// Err, when set, is returned by every read.
type Store struct {
	mu sync.RWMutex

	Issues      map[int64]resolver.Issue
	Houses      map[int64]resolver.House
	Occupants   map[int64][]int64 // house id -> user ids
	Complexes   map[int64]resolver.HouseComplex
	ComplexOf   map[int64]int64 // house id -> complex id
	Listings    map[int64]resolver.MarketListing
	Subscribers map[int64][]int64 // listing id -> user ids
	Err         error
}

func NewStore() *Store {
	return &Store{
		Issues:      map[int64]resolver.Issue{},
		Houses:      map[int64]resolver.House{},
		Occupants:   map[int64][]int64{},
		Complexes:   map[int64]resolver.HouseComplex{},
		ComplexOf:   map[int64]int64{},
		Listings:    map[int64]resolver.MarketListing{},
		Subscribers: map[int64][]int64{},
	}
}

func (s *Store) IssueByID(_ context.Context, id int64) (resolver.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return resolver.Issue{}, s.Err
	}
	i, ok := s.Issues[id]
	if !ok {
		return resolver.Issue{}, resolver.ErrNotFound
	}
	return i, nil
}

func (s *Store) HouseByID(_ context.Context, id int64) (resolver.House, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return resolver.House{}, s.Err
	}
	h, ok := s.Houses[id]
	if !ok {
		return resolver.House{}, resolver.ErrNotFound
	}
	return h, nil
}

func (s *Store) HouseOccupantIDs(_ context.Context, houseID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]int64(nil), s.Occupants[houseID]...), nil
}

func (s *Store) HouseComplexByID(_ context.Context, id int64) (resolver.HouseComplex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return resolver.HouseComplex{}, s.Err
	}
	c, ok := s.Complexes[id]
	if !ok {
		return resolver.HouseComplex{}, resolver.ErrNotFound
	}
	return c, nil
}

// HouseComplexOccupantIDs walks houses in ascending id order so results are stable.
func (s *Store) HouseComplexOccupantIDs(_ context.Context, complexID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var houseIDs []int64
	for houseID, c := range s.ComplexOf {
		if c == complexID && !s.Houses[houseID].Archived {
			houseIDs = append(houseIDs, houseID)
		}
	}
	slices.Sort(houseIDs)

	seen := map[int64]bool{}
	var out []int64
	for _, houseID := range houseIDs {
		for _, u := range s.Occupants[houseID] {
			if !seen[u] {
				seen[u] = true
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (s *Store) ListingByID(_ context.Context, id int64) (resolver.MarketListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return resolver.MarketListing{}, s.Err
	}
	l, ok := s.Listings[id]
	if !ok {
		return resolver.MarketListing{}, resolver.ErrNotFound
	}
	return l, nil
}

func (s *Store) ListingSubscriberIDs(_ context.Context, listingID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]int64(nil), s.Subscribers[listingID]...), nil
}

// Registry wires the four standard resolvers over s.
func (s *Store) Registry() *resolver.Registry {
	r, err := resolver.NewRegistry(
		resolver.NewIssueResolver(s),
		resolver.NewHouseResolver(s),
		resolver.NewHouseComplexResolver(s),
		resolver.NewMarketResolver(s),
	)
	if err != nil {
		panic(err)
	}
	return r
}
