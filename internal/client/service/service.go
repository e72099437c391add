package service

import (
	"context"
	"errors"
	"iter"
	"log/slog"

	"accountdesk/internal/client/models"
	"accountdesk/internal/platform/metrics"
	"accountdesk/pkg/domain"
	dErrors "accountdesk/pkg/domain-errors"
	"accountdesk/pkg/platform/sentinel"
	"accountdesk/pkg/requestcontext"
)

// Store persists client records.
//
// Each streams clients ordered by registration time then id, calling yield until
// it returns false. An empty segment streams every client.
type Store interface {
	Create(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, id domain.ClientID) (*models.Client, error)
	FindByIDs(ctx context.Context, ids []domain.ClientID) ([]*models.Client, error)
	Each(ctx context.Context, segment domain.Segment, yield func(*models.Client) bool) error
	Count(ctx context.Context) (int, error)
}

// Registry inserts and looks up client records.
type Registry struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(r *Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// New constructs a Registry.
func New(store Store, opts ...Option) (*Registry, error) {
	if store == nil {
		return nil, errors.New("client store is required")
	}
	r := &Registry{store: store}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Insert persists client under a freshly generated id, ignoring any id already set.
func (r *Registry) Insert(ctx context.Context, client *models.Client) (domain.ClientID, error) {
	if client == nil {
		return domain.ClientID{}, dErrors.New(dErrors.CodeBadRequest, "client record is required")
	}
	record := client.Clone()
	record.ID = domain.NewClientID()
	if err := r.store.Create(ctx, record); err != nil {
		return domain.ClientID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert client")
	}
	if r.logger != nil {
		r.logger.InfoContext(ctx, "client inserted",
			"client_id", record.ID.String(),
			"segment", record.Segment.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	if r.metrics != nil {
		r.metrics.IncrementClientsRegistered()
	}
	return record.ID, nil
}

// FindByID returns the client or a not_found error.
func (r *Registry) FindByID(ctx context.Context, id domain.ClientID) (*models.Client, error) {
	c, err := r.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "client not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load client")
	}
	return c, nil
}

// FindByIDs returns the clients that exist among ids; unknown ids are skipped.
func (r *Registry) FindByIDs(ctx context.Context, ids []domain.ClientID) ([]*models.Client, error) {
	if len(ids) == 0 {
		return []*models.Client{}, nil
	}
	clients, err := r.store.FindByIDs(ctx, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load clients")
	}
	return clients, nil
}

// FindBySegment lazily yields every client whose stored segment matches. Each
// range over the returned sequence re-queries the store.
func (r *Registry) FindBySegment(ctx context.Context, segment domain.Segment) iter.Seq2[*models.Client, error] {
	return r.each(ctx, segment)
}

// All lazily yields every client.
func (r *Registry) All(ctx context.Context) iter.Seq2[*models.Client, error] {
	return r.each(ctx, "")
}

// Count returns the number of stored clients.
func (r *Registry) Count(ctx context.Context) (int, error) {
	n, err := r.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count clients")
	}
	return n, nil
}

func (r *Registry) each(ctx context.Context, segment domain.Segment) iter.Seq2[*models.Client, error] {
	return func(yield func(*models.Client, error) bool) {
		stopped := false
		err := r.store.Each(ctx, segment, func(c *models.Client) bool {
			if !yield(c, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			yield(nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list clients"))
		}
	}
}
