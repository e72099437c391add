package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	clientmodels "accountdesk/internal/client/models"
	managermodels "accountdesk/internal/manager/models"
	"accountdesk/pkg/domain"
	dErrors "accountdesk/pkg/domain-errors"
	"accountdesk/pkg/requestcontext"
)

// MessageManagerNotFound is reported when no manager carries the requested name.
const MessageManagerNotFound = "manager not found"

const defaultFanOut = 8

// ManagerDirectory is the subset of the manager directory reports read from.
type ManagerDirectory interface {
	FindByName(ctx context.Context, name string) (*managermodels.Manager, error)
	Segments(ctx context.Context) ([]domain.Segment, error)
}

// ClientRegistry is the subset of the client registry reports read from.
type ClientRegistry interface {
	FindByID(ctx context.Context, id domain.ClientID) (*clientmodels.Client, error)
	FindBySegment(ctx context.Context, segment domain.Segment) iter.Seq2[*clientmodels.Client, error]
}

// ClientSummary is one line of a report.
type ClientSummary struct {
	Name        string          `json:"name"`
	TaxID       string          `json:"tax_id"`
	Region      domain.Region   `json:"region"`
	Income      decimal.Decimal `json:"income"`
	ManagerName string          `json:"manager_name,omitempty"`
}

// MarshalJSON renders income with two decimal places, as the text reports do.
func (c ClientSummary) MarshalJSON() ([]byte, error) {
	type view ClientSummary
	return json.Marshal(struct {
		view
		Income string `json:"income"`
	}{view: view(c), Income: domain.FormatIncome(c.Income)})
}

// ManagerReport lists a manager's clients. Found is false, with Message set, when
// the name matches no manager. Missing counts roster ids with no client record.
type ManagerReport struct {
	Found       bool            `json:"found"`
	Message     string          `json:"message,omitempty"`
	ManagerName string          `json:"manager_name"`
	Region      domain.Region   `json:"region,omitempty"`
	Segment     domain.Segment  `json:"segment,omitempty"`
	Clients     []ClientSummary `json:"clients"`
	Missing     int             `json:"missing"`
}

// SegmentGroup lists every client stored under one segment.
type SegmentGroup struct {
	Segment domain.Segment  `json:"segment"`
	Clients []ClientSummary `json:"clients"`
}

// Service produces read-only reports over managers and clients.
type Service struct {
	managers ManagerDirectory
	clients  ClientRegistry
	logger   *slog.Logger
	fanOut   int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithFanOut caps concurrent client lookups while resolving a roster.
func WithFanOut(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fanOut = n
		}
	}
}

func New(managers ManagerDirectory, clients ClientRegistry, opts ...Option) (*Service, error) {
	if managers == nil {
		return nil, errors.New("manager directory is required")
	}
	if clients == nil {
		return nil, errors.New("client registry is required")
	}
	s := &Service{managers: managers, clients: clients, fanOut: defaultFanOut}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ManagerReport resolves the manager's roster into client summaries ordered by
// registration time. An unknown name is not an error.
func (s *Service) ManagerReport(ctx context.Context, managerName string) (*ManagerReport, error) {
	manager, err := s.managers.FindByName(ctx, managerName)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return &ManagerReport{
				Found:       false,
				Message:     MessageManagerNotFound,
				ManagerName: managerName,
				Clients:     []ClientSummary{},
			}, nil
		}
		return nil, err
	}

	resolved := make([]*clientmodels.Client, len(manager.Clients))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanOut)
	for i, id := range manager.Clients {
		g.Go(func() error {
			c, err := s.clients.FindByID(gctx, id)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeNotFound) {
					return nil
				}
				return err
			}
			resolved[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	found := make([]*clientmodels.Client, 0, len(resolved))
	for _, c := range resolved {
		if c != nil {
			found = append(found, c)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if !found[i].RegisteredAt.Equal(found[j].RegisteredAt) {
			return found[i].RegisteredAt.Before(found[j].RegisteredAt)
		}
		return found[i].ID.String() < found[j].ID.String()
	})

	report := &ManagerReport{
		Found:       true,
		ManagerName: manager.Name,
		Region:      manager.Region,
		Segment:     manager.Segment,
		Clients:     make([]ClientSummary, 0, len(found)),
		Missing:     len(manager.Clients) - len(found),
	}
	for _, c := range found {
		report.Clients = append(report.Clients, summarize(c, false))
	}
	if report.Missing > 0 && s.logger != nil {
		s.logger.WarnContext(ctx, "manager roster references unknown clients",
			"manager_id", manager.ID.String(),
			"missing", report.Missing,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return report, nil
}

// SegmentReport groups clients under each segment served by at least one
// manager, in tier order. Segments without clients yield empty groups.
func (s *Service) SegmentReport(ctx context.Context) ([]SegmentGroup, error) {
	segments, err := s.managers.Segments(ctx)
	if err != nil {
		return nil, err
	}
	groups := make([]SegmentGroup, 0, len(segments))
	for _, segment := range segments {
		group := SegmentGroup{Segment: segment, Clients: []ClientSummary{}}
		for c, err := range s.clients.FindBySegment(ctx, segment) {
			if err != nil {
				return nil, err
			}
			group.Clients = append(group.Clients, summarize(c, true))
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func summarize(c *clientmodels.Client, withManager bool) ClientSummary {
	summary := ClientSummary{
		Name:   c.Name,
		TaxID:  c.TaxID,
		Region: c.Region,
		Income: c.Income,
	}
	if withManager {
		summary.ManagerName = c.ManagerName
	}
	return summary
}
