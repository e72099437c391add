package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"accountdesk/internal/manager/models"
	"accountdesk/internal/platform/metrics"
	"accountdesk/pkg/domain"
	dErrors "accountdesk/pkg/domain-errors"
	"accountdesk/pkg/platform/sentinel"
	"accountdesk/pkg/requestcontext"
)

// Store persists managers and their rosters.
//
// FindByRegionAndSegment returns every manager with the segment whose region is
// the requested one or RegionGeneral, in no particular order. AddClient has set
// semantics and returns sentinel.ErrNotFound for an unknown manager.
type Store interface {
	Create(ctx context.Context, manager *models.Manager) error
	FindByID(ctx context.Context, id domain.ManagerID) (*models.Manager, error)
	FindByName(ctx context.Context, name string) (*models.Manager, error)
	FindByRegionAndSegment(ctx context.Context, region domain.Region, segment domain.Segment) ([]*models.Manager, error)
	AddClient(ctx context.Context, managerID domain.ManagerID, clientID domain.ClientID) error
	DistinctSegments(ctx context.Context) ([]domain.Segment, error)
	List(ctx context.Context) ([]*models.Manager, error)
}

// Directory registers managers and picks the least-loaded one for a new client.
type Directory struct {
	store     Store
	logger    *slog.Logger
	metrics   *metrics.Metrics
	nameCache *gocache.Cache
}

type Option func(d *Directory)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Directory) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Directory) {
		d.metrics = m
	}
}

// WithNameCache caches name to id lookups for ttl. Managers are never deleted and
// lookups resolve to the earliest registration, so a cached id cannot go stale.
func WithNameCache(ttl time.Duration) Option {
	return func(d *Directory) {
		if ttl > 0 {
			d.nameCache = gocache.New(ttl, 2*ttl)
		}
	}
}

// New constructs a Directory.
func New(store Store, opts ...Option) (*Directory, error) {
	if store == nil {
		return nil, errors.New("manager store is required")
	}
	d := &Directory{store: store}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Register creates a manager with an empty roster. Duplicate names are accepted.
func (d *Directory) Register(ctx context.Context, name string, region domain.Region, segment domain.Segment) (*models.Manager, error) {
	m, err := models.NewManager(domain.NewManagerID(), name, region, segment, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}
	if err := d.store.Create(ctx, m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register manager")
	}

	d.log(ctx, "manager registered",
		"manager_id", m.ID.String(),
		"region", m.Region.String(),
		"segment", m.Segment.String(),
	)
	if d.metrics != nil {
		d.metrics.IncrementManagersRegistered()
	}
	return m, nil
}

// FindCandidate returns the least-loaded manager serving region and segment.
// Ties go to the earliest registration, then to the lowest id.
func (d *Directory) FindCandidate(ctx context.Context, region domain.Region, segment domain.Segment) (*models.Manager, error) {
	candidates, err := d.store.FindByRegionAndSegment(ctx, region, segment)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load candidate managers")
	}
	m := LeastLoaded(candidates)
	if m == nil {
		return nil, dErrors.New(dErrors.CodeNotFound,
			fmt.Sprintf("no manager for region %s and segment %s", region, segment))
	}
	return m, nil
}

// LeastLoaded picks the manager with the smallest roster using the deterministic
// tie-break. Returns nil for an empty slice.
func LeastLoaded(candidates []*models.Manager) *models.Manager {
	if len(candidates) == 0 {
		return nil
	}
	sorted := append([]*models.Manager(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.ClientCount() != b.ClientCount() {
			return a.ClientCount() < b.ClientCount()
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
	return sorted[0]
}

// AddClient puts clientID in the manager's roster. Adding twice is a no-op.
func (d *Directory) AddClient(ctx context.Context, managerID domain.ManagerID, clientID domain.ClientID) error {
	if err := d.store.AddClient(ctx, managerID, clientID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "manager not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update manager roster")
	}
	return nil
}

// Get returns a manager by id.
func (d *Directory) Get(ctx context.Context, managerID domain.ManagerID) (*models.Manager, error) {
	m, err := d.store.FindByID(ctx, managerID)
	if err != nil {
		return nil, wrapManagerErr(err)
	}
	return m, nil
}

// FindByName returns the earliest-registered manager with exactly this name.
func (d *Directory) FindByName(ctx context.Context, name string) (*models.Manager, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "manager name is required")
	}
	if d.nameCache != nil {
		if cached, ok := d.nameCache.Get(name); ok {
			if m, err := d.store.FindByID(ctx, cached.(domain.ManagerID)); err == nil {
				return m, nil
			}
			d.nameCache.Delete(name)
		}
	}
	m, err := d.store.FindByName(ctx, name)
	if err != nil {
		return nil, wrapManagerErr(err)
	}
	if d.nameCache != nil {
		d.nameCache.SetDefault(name, m.ID)
	}
	return m, nil
}

// Segments lists the distinct segments served by at least one manager, in tier order.
func (d *Directory) Segments(ctx context.Context) ([]domain.Segment, error) {
	segments, err := d.store.DistinctSegments(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list segments")
	}
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Tier() < segments[j].Tier()
	})
	return segments, nil
}

// List returns every manager.
func (d *Directory) List(ctx context.Context) ([]*models.Manager, error) {
	managers, err := d.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list managers")
	}
	return managers, nil
}

func (d *Directory) log(ctx context.Context, msg string, attrs ...any) {
	if d.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attrs = append(attrs, "request_id", requestID)
	}
	d.logger.InfoContext(ctx, msg, attrs...)
}

func wrapManagerErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "manager not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load manager")
}
