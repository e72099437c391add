package reporting_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	clientmodels "accountdesk/internal/client/models"
	clientservice "accountdesk/internal/client/service"
	clientstore "accountdesk/internal/client/store"
	managermodels "accountdesk/internal/manager/models"
	managerservice "accountdesk/internal/manager/service"
	managerstore "accountdesk/internal/manager/store"
	"accountdesk/internal/reporting"
	"accountdesk/pkg/domain"
	"accountdesk/pkg/requestcontext"
)

type ReportingSuite struct {
	suite.Suite
	ctx      context.Context
	clock    time.Time
	managers *managerservice.Directory
	clients  *clientservice.Registry
	service  *reporting.Service
}

func TestReportingSuite(t *testing.T) {
	suite.Run(t, new(ReportingSuite))
}

func (s *ReportingSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	var err error
	s.managers, err = managerservice.New(managerstore.NewInMemory())
	s.Require().NoError(err)
	s.clients, err = clientservice.New(clientstore.NewInMemory())
	s.Require().NoError(err)
	s.service, err = reporting.New(s.managers, s.clients, reporting.WithFanOut(2))
	s.Require().NoError(err)
}

func (s *ReportingSuite) tick() context.Context {
	s.clock = s.clock.Add(time.Minute)
	return requestcontext.WithTime(s.ctx, s.clock)
}

func (s *ReportingSuite) register(name string, region domain.Region, segment domain.Segment) *managermodels.Manager {
	m, err := s.managers.Register(s.tick(), name, region, segment)
	s.Require().NoError(err)
	return m
}

// assign stores a client and places it in m's roster.
func (s *ReportingSuite) assign(m *managermodels.Manager, name, income string) domain.ClientID {
	s.clock = s.clock.Add(time.Minute)
	c, err := clientmodels.NewClient(name, "CPF-"+name, decimal.RequireFromString(income), "SP",
		time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC), m.ID, m.Name, s.clock)
	s.Require().NoError(err)
	id, err := s.clients.Insert(s.ctx, c)
	s.Require().NoError(err)
	s.Require().NoError(s.managers.AddClient(s.ctx, m.ID, id))
	return id
}

func (s *ReportingSuite) TestManagerReport() {
	ana := s.register("Ana", "SP", domain.SegmentRetail)
	s.assign(ana, "Joao", "5000")
	s.assign(ana, "Maria", "1234.5")

	s.Run("lists roster in registration order", func() {
		report, err := s.service.ManagerReport(s.ctx, "Ana")
		s.Require().NoError(err)
		s.True(report.Found)
		s.Require().Len(report.Clients, 2)
		s.Equal("Joao", report.Clients[0].Name)
		s.Equal("Maria", report.Clients[1].Name)
		s.Zero(report.Missing)
		s.Empty(report.Clients[0].ManagerName)
	})

	s.Run("unregistered name is a message, not an error", func() {
		report, err := s.service.ManagerReport(s.ctx, "Nobody")
		s.Require().NoError(err)
		s.False(report.Found)
		s.Equal(reporting.MessageManagerNotFound, report.Message)
		s.Empty(report.Clients)
	})

	s.Run("roster ids without a client are counted as missing", func() {
		s.Require().NoError(s.managers.AddClient(s.ctx, ana.ID, domain.NewClientID()))
		report, err := s.service.ManagerReport(s.ctx, "Ana")
		s.Require().NoError(err)
		s.Len(report.Clients, 2)
		s.Equal(1, report.Missing)
	})

	s.Run("manager without clients yields an empty report", func() {
		s.register("Bia", "RJ", domain.SegmentPremium)
		report, err := s.service.ManagerReport(s.ctx, "Bia")
		s.Require().NoError(err)
		s.True(report.Found)
		s.Empty(report.Clients)
	})
}

func (s *ReportingSuite) TestSegmentReport() {
	ana := s.register("Ana", "SP", domain.SegmentRetail)
	s.register("Caio", domain.RegionGeneral, domain.SegmentPrivate)
	bia := s.register("Bia", "SP", domain.SegmentRetail)
	s.assign(ana, "Joao", "5000")
	s.assign(bia, "Lia", "10")

	groups, err := s.service.SegmentReport(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(groups, 2)

	s.Equal(domain.SegmentRetail, groups[0].Segment)
	s.Require().Len(groups[0].Clients, 2)
	s.Equal("Ana", groups[0].Clients[0].ManagerName)
	s.Equal("Bia", groups[0].Clients[1].ManagerName)

	s.Equal(domain.SegmentPrivate, groups[1].Segment)
	s.Empty(groups[1].Clients)
}

func (s *ReportingSuite) TestRender() {
	ana := s.register("Ana", "SP", domain.SegmentRetail)
	s.assign(ana, "Joao", "5000")

	s.Run("manager report lines", func() {
		report, err := s.service.ManagerReport(s.ctx, "Ana")
		s.Require().NoError(err)
		var buf bytes.Buffer
		s.Require().NoError(reporting.RenderManagerReport(&buf, report))
		s.Equal("Joao - CPF: CPF-Joao - Estado: SP - Renda: R$ 5000.00\n", buf.String())
	})

	s.Run("not found message", func() {
		report, err := s.service.ManagerReport(s.ctx, "Ghost")
		s.Require().NoError(err)
		var buf bytes.Buffer
		s.Require().NoError(reporting.RenderManagerReport(&buf, report))
		s.Equal("manager not found\n", buf.String())
	})

	s.Run("segment report adds header and manager", func() {
		groups, err := s.service.SegmentReport(s.ctx)
		s.Require().NoError(err)
		var buf bytes.Buffer
		s.Require().NoError(reporting.RenderSegmentReport(&buf, groups))
		s.Equal("Segmento: Retail\nJoao - CPF: CPF-Joao - Estado: SP - Renda: R$ 5000.00 - Gerente: Ana\n", buf.String())
	})
}

func (s *ReportingSuite) TestClientSummaryJSON() {
	ana := s.register("Ana", "SP", domain.SegmentRetail)
	s.assign(ana, "Joao", "5000")

	report, err := s.service.ManagerReport(s.ctx, "Ana")
	s.Require().NoError(err)
	raw, err := json.Marshal(report.Clients[0])
	s.Require().NoError(err)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(raw, &body))
	s.Equal("5000.00", body["income"])
	s.Equal("Joao", body["name"])
	s.Equal("SP", body["region"])
	s.NotContains(body, "manager_name")
}

func (s *ReportingSuite) TestNewRequiresDependencies() {
	_, err := reporting.New(nil, s.clients)
	s.Error(err)
	_, err = reporting.New(s.managers, nil)
	s.Error(err)
}
