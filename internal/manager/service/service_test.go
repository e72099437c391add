package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"accountdesk/internal/manager/models"
	"accountdesk/internal/manager/service"
	"accountdesk/internal/manager/store"
	"accountdesk/internal/platform/metrics"
	"accountdesk/pkg/domain"
	dErrors "accountdesk/pkg/domain-errors"
	"accountdesk/pkg/requestcontext"
)

type DirectorySuite struct {
	suite.Suite
	store     *store.InMemory
	metrics   *metrics.Metrics
	directory *service.Directory
	ctx       context.Context
	now       time.Time
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.store = store.NewInMemory()
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var err error
	s.directory, err = service.New(s.store,
		service.WithLogger(logger),
		service.WithMetrics(s.metrics),
		service.WithNameCache(time.Minute),
	)
	s.Require().NoError(err)
	s.now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *DirectorySuite) register(name string, region domain.Region, segment domain.Segment) *models.Manager {
	m, err := s.directory.Register(s.ctx, name, region, segment)
	s.Require().NoError(err)
	return m
}

func (s *DirectorySuite) TestNew() {
	_, err := service.New(nil)
	s.Require().Error(err)
	s.Contains(err.Error(), "manager store is required")
}

func (s *DirectorySuite) TestRegister() {
	s.Run("creates manager with empty roster", func() {
		m := s.register("Ana", "SP", domain.SegmentRetail)
		s.False(m.ID.IsNil())
		s.Empty(m.Clients)
		s.Equal(s.now, m.CreatedAt)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.ManagersRegistered))
	})

	s.Run("duplicate names are permitted", func() {
		a := s.register("Twin", "SP", domain.SegmentRetail)
		b := s.register("Twin", "SP", domain.SegmentRetail)
		s.NotEqual(a.ID, b.ID)
	})

	s.Run("empty name is a validation error", func() {
		_, err := s.directory.Register(s.ctx, "  ", "SP", domain.SegmentRetail)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("regions are stored in canonical form", func() {
		local := s.register("Lower", " rj ", domain.SegmentExclusive)
		s.Equal(domain.Region("RJ"), local.Region)

		general := s.register("Geral", "Geral", domain.SegmentExclusive)
		s.Equal(domain.RegionGeneral, general.Region)

		found, err := s.directory.FindCandidate(s.ctx, "RJ", domain.SegmentExclusive)
		s.Require().NoError(err)
		s.Equal(local.ID, found.ID)
	})
}

func (s *DirectorySuite) TestFindCandidate() {
	s.Run("fails with NotFound when no manager matches", func() {
		s.register("Ana", "SP", domain.SegmentRetail)
		_, err := s.directory.FindCandidate(s.ctx, "SP", domain.SegmentExclusive)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("never returns a segment mismatch", func() {
		s.register("Bia", domain.RegionGeneral, domain.SegmentPrivate)
		m, err := s.directory.FindCandidate(s.ctx, "RJ", domain.SegmentPrivate)
		s.Require().NoError(err)
		s.Equal(domain.SegmentPrivate, m.Segment)

		m, err = s.directory.FindCandidate(s.ctx, domain.RegionGeneral, domain.SegmentPrivate)
		s.Require().NoError(err)
		s.Equal(domain.SegmentPrivate, m.Segment)
	})

	s.Run("picks the manager with the fewest clients", func() {
		busy := s.register("Busy", domain.RegionGeneral, domain.SegmentPremium)
		idle := s.register("Idle", domain.RegionGeneral, domain.SegmentPremium)
		s.Require().NoError(s.directory.AddClient(s.ctx, busy.ID, domain.NewClientID()))
		s.Require().NoError(s.directory.AddClient(s.ctx, busy.ID, domain.NewClientID()))

		m, err := s.directory.FindCandidate(s.ctx, "MG", domain.SegmentPremium)
		s.Require().NoError(err)
		s.Equal(idle.ID, m.ID)
	})
}

func (s *DirectorySuite) TestAddClient() {
	m := s.register("Ana", "SP", domain.SegmentRetail)
	clientID := domain.NewClientID()

	s.Require().NoError(s.directory.AddClient(s.ctx, m.ID, clientID))
	s.Require().NoError(s.directory.AddClient(s.ctx, m.ID, clientID))

	got, err := s.directory.Get(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Len(got.Clients, 1)

	err = s.directory.AddClient(s.ctx, domain.NewManagerID(), clientID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *DirectorySuite) TestFindByName() {
	s.Run("resolves through the cache after the first lookup", func() {
		m := s.register("Ana", "SP", domain.SegmentRetail)
		first, err := s.directory.FindByName(s.ctx, "Ana")
		s.Require().NoError(err)
		s.Equal(m.ID, first.ID)

		s.Require().NoError(s.directory.AddClient(s.ctx, m.ID, domain.NewClientID()))
		second, err := s.directory.FindByName(s.ctx, " Ana ")
		s.Require().NoError(err)
		s.Len(second.Clients, 1, "cached lookups still read the current roster")
	})

	s.Run("unknown name is NotFound", func() {
		_, err := s.directory.FindByName(s.ctx, "Ghost")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("blank name is a bad request", func() {
		_, err := s.directory.FindByName(s.ctx, "")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *DirectorySuite) TestSegments() {
	s.register("Ana", "SP", domain.SegmentPrivate)
	s.register("Bia", "SP", domain.SegmentRetail)
	s.register("Caio", "RJ", domain.SegmentRetail)

	segments, err := s.directory.Segments(s.ctx)
	s.Require().NoError(err)
	s.Equal([]domain.Segment{domain.SegmentRetail, domain.SegmentPrivate}, segments)
}

func (s *DirectorySuite) TestStoreFailuresAreInternal() {
	d, err := service.New(failingStore{})
	s.Require().NoError(err)

	_, err = d.FindCandidate(s.ctx, "SP", domain.SegmentRetail)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	err = d.AddClient(s.ctx, domain.NewManagerID(), domain.NewClientID())
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestLeastLoaded_TieBreak(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	older := &models.Manager{ID: domain.NewManagerID(), CreatedAt: base}
	newer := &models.Manager{ID: domain.NewManagerID(), CreatedAt: base.Add(time.Hour)}
	sameA := &models.Manager{ID: domain.ManagerID{0x01}, CreatedAt: base}
	sameB := &models.Manager{ID: domain.ManagerID{0x02}, CreatedAt: base}

	if got := service.LeastLoaded([]*models.Manager{newer, older}); got != older {
		t.Fatalf("expected earliest registration to win the tie")
	}
	if got := service.LeastLoaded([]*models.Manager{sameB, sameA}); got != sameA {
		t.Fatalf("expected lowest id to win when registration times match")
	}
	loaded := &models.Manager{ID: domain.NewManagerID(), CreatedAt: base.Add(-time.Hour), Clients: []domain.ClientID{domain.NewClientID()}}
	if got := service.LeastLoaded([]*models.Manager{loaded, newer}); got != newer {
		t.Fatalf("expected roster size to dominate the tie-break")
	}
	if service.LeastLoaded(nil) != nil {
		t.Fatalf("expected nil for no candidates")
	}
}

var errBoom = errors.New("boom")

type failingStore struct{}

func (failingStore) Create(context.Context, *models.Manager) error { return errBoom }
func (failingStore) FindByID(context.Context, domain.ManagerID) (*models.Manager, error) {
	return nil, errBoom
}
func (failingStore) FindByName(context.Context, string) (*models.Manager, error) { return nil, errBoom }
func (failingStore) FindByRegionAndSegment(context.Context, domain.Region, domain.Segment) ([]*models.Manager, error) {
	return nil, errBoom
}
func (failingStore) AddClient(context.Context, domain.ManagerID, domain.ClientID) error { return errBoom }
func (failingStore) DistinctSegments(context.Context) ([]domain.Segment, error)        { return nil, errBoom }
func (failingStore) List(context.Context) ([]*models.Manager, error)                   { return nil, errBoom }
