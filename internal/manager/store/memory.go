package store

import (
	"context"
	"sort"
	"sync"

	"accountdesk/internal/manager/models"
	"accountdesk/pkg/domain"
	"accountdesk/pkg/platform/sentinel"
)

// InMemory keeps managers in a map guarded by a RWMutex. Records are cloned on the
// way in and out so callers never share a roster slice with the store.
type InMemory struct {
	mu       sync.RWMutex
	managers map[domain.ManagerID]*models.Manager
}

func NewInMemory() *InMemory {
	return &InMemory{managers: make(map[domain.ManagerID]*models.Manager)}
}

func (s *InMemory) Create(_ context.Context, manager *models.Manager) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.managers[manager.ID]; exists {
		return sentinel.ErrConflict
	}
	s.managers[manager.ID] = manager.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.ManagerID) (*models.Manager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.managers[id]; ok {
		return m.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByName(_ context.Context, name string) (*models.Manager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matches []*models.Manager
	for _, m := range s.managers {
		if m.Name == name {
			matches = append(matches, m)
		}
	}
	if len(matches) == 0 {
		return nil, sentinel.ErrNotFound
	}
	sortByRegistration(matches)
	return matches[0].Clone(), nil
}

func (s *InMemory) FindByRegionAndSegment(_ context.Context, region domain.Region, segment domain.Segment) ([]*models.Manager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Manager, 0)
	for _, m := range s.managers {
		if m.Serves(region, segment) {
			out = append(out, m.Clone())
		}
	}
	return out, nil
}

func (s *InMemory) AddClient(_ context.Context, managerID domain.ManagerID, clientID domain.ClientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.managers[managerID]
	if !ok {
		return sentinel.ErrNotFound
	}
	m.AddClient(clientID)
	return nil
}

func (s *InMemory) DistinctSegments(_ context.Context) ([]domain.Segment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[domain.Segment]struct{})
	out := make([]domain.Segment, 0)
	for _, m := range s.managers {
		if _, ok := seen[m.Segment]; ok {
			continue
		}
		seen[m.Segment] = struct{}{}
		out = append(out, m.Segment)
	}
	return out, nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Manager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Manager, 0, len(s.managers))
	for _, m := range s.managers {
		out = append(out, m.Clone())
	}
	sortByRegistration(out)
	return out, nil
}

func sortByRegistration(managers []*models.Manager) {
	sort.Slice(managers, func(i, j int) bool {
		if !managers[i].CreatedAt.Equal(managers[j].CreatedAt) {
			return managers[i].CreatedAt.Before(managers[j].CreatedAt)
		}
		return managers[i].ID.String() < managers[j].ID.String()
	})
}
