package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"accountdesk/internal/assignment/metrics"
	"accountdesk/internal/assignment/models"
	clientmodels "accountdesk/internal/client/models"
	managermodels "accountdesk/internal/manager/models"
	"accountdesk/pkg/domain"
	dErrors "accountdesk/pkg/domain-errors"
	"accountdesk/pkg/platform/sentinel"
	"accountdesk/pkg/requestcontext"
)

const tracerName = "accountdesk/assignment"

// Service assigns new clients to the least-loaded eligible manager.
//
// The default path performs two independent writes (client insert, then roster
// update). A failure between them leaves an orphan client that RepairRosters can
// reconcile; WithTx closes the gap for backends that support transactions.
type Service struct {
	managers  ManagerDirectory
	clients   ClientRegistry
	locker    Locker
	publisher Publisher
	tx        StoreTx
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLocker serializes candidate selection and both writes per region and segment.
func WithLocker(locker Locker) Option {
	return func(s *Service) {
		s.locker = locker
	}
}

func WithPublisher(publisher Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithTx runs the client insert and roster update in one transaction.
func WithTx(tx StoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(managers ManagerDirectory, clients ClientRegistry, opts ...Option) (*Service, error) {
	if managers == nil {
		return nil, errors.New("manager directory is required")
	}
	if clients == nil {
		return nil, errors.New("client registry is required")
	}
	s := &Service{
		managers: managers,
		clients:  clients,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AssignClient classifies the client, picks a manager, stores the client and adds
// it to the manager's roster.
//
// When the roster update fails after the insert, the new client id is returned
// together with an internal error so the orphan is visible to the caller.
func (s *Service) AssignClient(ctx context.Context, req models.AssignRequest) (domain.ClientID, error) {
	start := time.Now()
	if s.metrics != nil {
		defer s.metrics.ObserveAssignmentDuration(start)
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return domain.ClientID{}, err
	}
	segment := domain.ClassifyIncome(req.Income)

	ctx, span := s.tracer.Start(ctx, "assignment.AssignClient", trace.WithAttributes(
		attribute.String("region", req.Region.String()),
		attribute.String("segment", segment.String()),
	))
	defer span.End()

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, models.LockKey(segment))
		if err != nil {
			err = lockError(err)
			recordSpanError(span, err)
			return domain.ClientID{}, err
		}
		defer func() {
			if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
				s.logError(ctx, "failed to release assignment lock", rerr)
			}
		}()
	}

	manager, err := s.managers.FindCandidate(ctx, req.Region, segment)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) && s.metrics != nil {
			s.metrics.IncrementNoManager(segment)
		}
		recordSpanError(span, err)
		return domain.ClientID{}, err
	}
	span.SetAttributes(attribute.String("manager_id", manager.ID.String()))

	record, err := clientmodels.NewClient(req.Name, req.TaxID, req.Income, req.Region, req.BirthDate,
		manager.ID, manager.Name, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			err = dErrors.New(dErrors.CodeValidation, err.Error())
		}
		recordSpanError(span, err)
		return domain.ClientID{}, err
	}

	clientID, err := s.persist(ctx, manager, record)
	if err != nil {
		recordSpanError(span, err)
		return clientID, err
	}
	span.SetAttributes(attribute.String("client_id", clientID.String()))

	s.logInfo(ctx, "client assigned",
		"client_id", clientID.String(),
		"manager_id", manager.ID.String(),
		"segment", segment.String(),
	)
	if s.metrics != nil {
		s.metrics.IncrementAssignments(segment)
	}
	s.publish(ctx, models.ClientAssigned{
		ClientID:    clientID,
		ManagerID:   manager.ID,
		ManagerName: manager.Name,
		Region:      req.Region,
		Segment:     segment,
		AssignedAt:  record.RegisteredAt,
	})
	return clientID, nil
}

func (s *Service) persist(ctx context.Context, manager *managermodels.Manager, record *clientmodels.Client) (domain.ClientID, error) {
	if s.tx != nil {
		var clientID domain.ClientID
		err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			id, err := s.clients.Insert(txCtx, record)
			if err != nil {
				return err
			}
			if err := s.managers.AddClient(txCtx, manager.ID, id); err != nil {
				return err
			}
			clientID = id
			return nil
		})
		if err != nil {
			return domain.ClientID{}, err
		}
		return clientID, nil
	}

	clientID, err := s.clients.Insert(ctx, record)
	if err != nil {
		return domain.ClientID{}, err
	}
	if err := s.managers.AddClient(ctx, manager.ID, clientID); err != nil {
		s.logError(ctx, "client stored without roster entry", err,
			"client_id", clientID.String(),
			"manager_id", manager.ID.String(),
		)
		if s.metrics != nil {
			s.metrics.IncrementRosterUpdateFailures()
		}
		return clientID, dErrors.Wrap(err, dErrors.CodeInternal, "client stored but manager roster update failed")
	}
	return clientID, nil
}

func (s *Service) publish(ctx context.Context, event models.ClientAssigned) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishClientAssigned(ctx, event); err != nil {
		s.logError(ctx, "failed to publish client assigned event", err, "client_id", event.ClientID.String())
		if s.metrics != nil {
			s.metrics.IncrementEventPublishFailures()
		}
	}
}

func lockError(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrLockHeld),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "timed out waiting for assignment lock")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to acquire assignment lock")
	}
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.GetCode(err)))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attrs = append(attrs, "request_id", requestID)
	}
	s.logger.InfoContext(ctx, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...any) {
	if s.logger == nil {
		return
	}
	attrs = append(attrs, "error", err)
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attrs = append(attrs, "request_id", requestID)
	}
	s.logger.ErrorContext(ctx, msg, attrs...)
}
