package models

import (
	"strings"
	"time"

	"accountdesk/pkg/domain"
	dErrors "accountdesk/pkg/domain-errors"
)

// Manager is an account manager and their client roster.
//
// Invariants:
//   - Name is non-empty and at most 128 characters (duplicates are allowed)
//   - Region is non-empty; RegionGeneral serves every client region
//   - Segment is one of the known segments
//   - Clients has set semantics: an id appears at most once
type Manager struct {
	ID        domain.ManagerID
	Name      string
	Region    domain.Region
	Segment   domain.Segment
	Clients   []domain.ClientID
	CreatedAt time.Time
}

func NewManager(managerID domain.ManagerID, name string, region domain.Region, segment domain.Segment, now time.Time) (*Manager, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "manager name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "manager name must be 128 characters or less")
	}
	region, err := domain.ParseRegion(region.String())
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "manager region cannot be empty")
	}
	if !segment.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid manager segment")
	}
	return &Manager{
		ID:        managerID,
		Name:      name,
		Region:    region,
		Segment:   segment,
		Clients:   []domain.ClientID{},
		CreatedAt: now,
	}, nil
}

// ClientCount is the roster size used for least-loaded selection.
func (m *Manager) ClientCount() int {
	return len(m.Clients)
}

func (m *Manager) HasClient(clientID domain.ClientID) bool {
	for _, c := range m.Clients {
		if c == clientID {
			return true
		}
	}
	return false
}

// AddClient appends clientID unless already present. Reports whether the roster changed.
func (m *Manager) AddClient(clientID domain.ClientID) bool {
	if m.HasClient(clientID) {
		return false
	}
	m.Clients = append(m.Clients, clientID)
	return true
}

// Serves reports whether this manager is a candidate for a client in region with segment.
func (m *Manager) Serves(region domain.Region, segment domain.Segment) bool {
	return m.Segment == segment && m.Region.Serves(region)
}

// Clone returns a deep copy so stores can hand out records without sharing the roster.
func (m *Manager) Clone() *Manager {
	c := *m
	c.Clients = append([]domain.ClientID(nil), m.Clients...)
	if c.Clients == nil {
		c.Clients = []domain.ClientID{}
	}
	return &c
}
