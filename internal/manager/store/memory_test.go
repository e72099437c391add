package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"accountdesk/internal/manager/models"
	"accountdesk/pkg/domain"
	"accountdesk/pkg/platform/sentinel"
)

type ManagerStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func (s *ManagerStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
}

func TestManagerStoreSuite(t *testing.T) {
	suite.Run(t, new(ManagerStoreSuite))
}

func (s *ManagerStoreSuite) newManager(name string, region domain.Region, segment domain.Segment, offset time.Duration) *models.Manager {
	m, err := models.NewManager(domain.NewManagerID(), name, region, segment, s.now.Add(offset))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, m))
	return m
}

func (s *ManagerStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds manager by ID", func() {
		m := s.newManager("Ana", "SP", domain.SegmentRetail, 0)

		found, err := s.store.FindByID(s.ctx, m.ID)
		s.Require().NoError(err)
		s.Equal("Ana", found.Name)
		s.Empty(found.Clients)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, domain.NewManagerID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects a second create with the same ID", func() {
		m := s.newManager("Caio", "RJ", domain.SegmentRetail, 0)
		s.ErrorIs(s.store.Create(s.ctx, m), sentinel.ErrConflict)
	})
}

func (s *ManagerStoreSuite) TestFindByName() {
	s.Run("duplicate names resolve to the earliest registration", func() {
		first := s.newManager("Duplicate", "SP", domain.SegmentRetail, time.Minute)
		s.newManager("Duplicate", "RJ", domain.SegmentPremium, 2*time.Minute)

		found, err := s.store.FindByName(s.ctx, "Duplicate")
		s.Require().NoError(err)
		s.Equal(first.ID, found.ID)
	})

	s.Run("returns ErrNotFound for unknown name", func() {
		_, err := s.store.FindByName(s.ctx, "Nobody")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *ManagerStoreSuite) TestFindByRegionAndSegment() {
	sp := s.newManager("Ana", "SP", domain.SegmentPremium, 0)
	general := s.newManager("Bia", domain.RegionGeneral, domain.SegmentPremium, 0)
	s.newManager("Caio", "RJ", domain.SegmentPremium, 0)
	s.newManager("Duda", "SP", domain.SegmentRetail, 0)

	found, err := s.store.FindByRegionAndSegment(s.ctx, "SP", domain.SegmentPremium)
	s.Require().NoError(err)
	ids := make([]domain.ManagerID, 0, len(found))
	for _, m := range found {
		s.Equal(domain.SegmentPremium, m.Segment)
		ids = append(ids, m.ID)
	}
	s.ElementsMatch([]domain.ManagerID{sp.ID, general.ID}, ids)

	found, err = s.store.FindByRegionAndSegment(s.ctx, "MG", domain.SegmentPrivate)
	s.Require().NoError(err)
	s.Empty(found)
}

func (s *ManagerStoreSuite) TestAddClient() {
	s.Run("is idempotent", func() {
		m := s.newManager("Ana", "SP", domain.SegmentRetail, 0)
		clientID := domain.NewClientID()

		s.Require().NoError(s.store.AddClient(s.ctx, m.ID, clientID))
		s.Require().NoError(s.store.AddClient(s.ctx, m.ID, clientID))

		found, err := s.store.FindByID(s.ctx, m.ID)
		s.Require().NoError(err)
		s.Equal([]domain.ClientID{clientID}, found.Clients)
	})

	s.Run("returns ErrNotFound for unknown manager", func() {
		err := s.store.AddClient(s.ctx, domain.NewManagerID(), domain.NewClientID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned records do not alias the stored roster", func() {
		m := s.newManager("Eva", "SP", domain.SegmentRetail, 0)
		found, err := s.store.FindByID(s.ctx, m.ID)
		s.Require().NoError(err)
		found.AddClient(domain.NewClientID())

		again, err := s.store.FindByID(s.ctx, m.ID)
		s.Require().NoError(err)
		s.Empty(again.Clients)
	})
}

func (s *ManagerStoreSuite) TestDistinctSegmentsAndList() {
	s.newManager("Ana", "SP", domain.SegmentRetail, 2*time.Second)
	s.newManager("Bia", "RJ", domain.SegmentRetail, time.Second)
	s.newManager("Caio", "RJ", domain.SegmentPrivate, 3*time.Second)

	segments, err := s.store.DistinctSegments(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]domain.Segment{domain.SegmentRetail, domain.SegmentPrivate}, segments)

	all, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("Bia", all[0].Name)
	s.Equal("Caio", all[2].Name)
}
