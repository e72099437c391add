package store

import (
	"context"
	"sort"
	"sync"

	"accountdesk/internal/client/models"
	"accountdesk/pkg/domain"
	"accountdesk/pkg/platform/sentinel"
)

// InMemory keeps client records in a map guarded by a RWMutex.
type InMemory struct {
	mu      sync.RWMutex
	clients map[domain.ClientID]*models.Client
}

func NewInMemory() *InMemory {
	return &InMemory{clients: make(map[domain.ClientID]*models.Client)}
}

func (s *InMemory) Create(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.clients[client.ID]; exists {
		return sentinel.ErrConflict
	}
	s.clients[client.ID] = client.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.ClientID) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.clients[id]; ok {
		return c.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByIDs(_ context.Context, ids []domain.ClientID) ([]*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Client, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.clients[id]; ok {
			out = append(out, c.Clone())
		}
	}
	sortByRegistration(out)
	return out, nil
}

// Each snapshots matching records before yielding so callbacks may re-enter the store.
func (s *InMemory) Each(ctx context.Context, segment domain.Segment, yield func(*models.Client) bool) error {
	s.mu.RLock()
	matches := make([]*models.Client, 0)
	for _, c := range s.clients {
		if segment == "" || c.Segment == segment {
			matches = append(matches, c.Clone())
		}
	}
	s.mu.RUnlock()

	sortByRegistration(matches)
	for _, c := range matches {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !yield(c) {
			return nil
		}
	}
	return nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients), nil
}

func sortByRegistration(clients []*models.Client) {
	sort.Slice(clients, func(i, j int) bool {
		if !clients[i].RegisteredAt.Equal(clients[j].RegisteredAt) {
			return clients[i].RegisteredAt.Before(clients[j].RegisteredAt)
		}
		return clients[i].ID.String() < clients[j].ID.String()
	})
}
