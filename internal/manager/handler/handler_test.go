package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"accountdesk/internal/manager/service"
	"accountdesk/internal/manager/store"
	"accountdesk/pkg/domain"
	"accountdesk/pkg/requestcontext"
	"accountdesk/pkg/testutil"
)

type ManagerHandlerSuite struct {
	suite.Suite
	router    chi.Router
	directory *service.Directory
}

func TestManagerHandlerSuite(t *testing.T) {
	suite.Run(t, new(ManagerHandlerSuite))
}

func (s *ManagerHandlerSuite) SetupTest() {
	directory, err := service.New(store.NewInMemory())
	s.Require().NoError(err)
	s.directory = directory

	s.router = chi.NewRouter()
	New(directory, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *ManagerHandlerSuite) TestRegister() {
	s.Run("creates a manager", func() {
		registeredAt := time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/managers",
			map[string]string{"name": "Ana", "region": "sp", "segment": "retail"})
		req = testutil.WithRequestID(testutil.WithRequestTime(req, registeredAt), "req-1")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[Response](s.T(), rr)
		s.True(registeredAt.Equal(resp.CreatedAt))
		s.Equal("Ana", resp.Name)
		s.Equal("SP", resp.Region)
		s.Equal("Retail", resp.Segment)
		s.Empty(resp.Clients)
		s.NotEmpty(resp.ID)
	})

	s.Run("general region wildcard", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/managers",
			map[string]string{"name": "Bia", "region": "Geral", "segment": "Premium"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[Response](s.T(), rr)
		s.Equal(domain.RegionGeneral.String(), resp.Region)
	})

	s.Run("rejects unknown segment", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/managers",
			map[string]string{"name": "Ana", "region": "SP", "segment": "Gold"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("rejects blank name", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/managers",
			map[string]string{"name": " ", "region": "SP", "segment": "Retail"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("rejects malformed body", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/managers", `{"name":`)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *ManagerHandlerSuite) TestGet() {
	ctx := requestcontext.WithTime(context.Background(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	m, err := s.directory.Register(ctx, "Ana", "SP", domain.SegmentRetail)
	s.Require().NoError(err)

	s.Run("returns the manager", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/managers/"+m.ID.String()))
		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[Response](s.T(), rr)
		s.Equal(m.ID.String(), resp.ID)
	})

	s.Run("unknown id is 404", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/managers/"+domain.NewManagerID().String()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("malformed id is 400", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/managers/not-a-uuid"))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}
