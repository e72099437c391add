package httptransport

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assignmenthandler "accountdesk/internal/assignment/handler"
	assignmentservice "accountdesk/internal/assignment/service"
	clientservice "accountdesk/internal/client/service"
	clientstore "accountdesk/internal/client/store"
	managerhandler "accountdesk/internal/manager/handler"
	managerservice "accountdesk/internal/manager/service"
	managerstore "accountdesk/internal/manager/store"
	"accountdesk/internal/platform/metrics"
	"accountdesk/internal/reporting"
	reportinghandler "accountdesk/internal/reporting/handler"
	"accountdesk/pkg/testutil"
)

func newInMemoryAPI(t *testing.T) http.Handler {
	t.Helper()
	managers, err := managerservice.New(managerstore.NewInMemory())
	require.NoError(t, err)
	clients, err := clientservice.New(clientstore.NewInMemory())
	require.NoError(t, err)
	assignments, err := assignmentservice.New(managers, clients)
	require.NoError(t, err)
	reports, err := reporting.New(managers, clients)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	return NewRouter(RouterConfig{Metrics: metrics.NewWithRegisterer(reg), Gatherer: reg},
		managerhandler.New(managers, nil),
		assignmenthandler.New(assignments, clients, "token", nil),
		reportinghandler.New(reports, nil),
	)
}

func TestScenario_RetailClientLandsInRoster(t *testing.T) {
	api := newInMemoryAPI(t)
	var managerID, clientID string

	testutil.Given(t, "a Retail manager in SP", func(t *testing.T) {
		rr := testutil.DoRequest(api, testutil.NewJSONRequest(t, http.MethodPost, "/managers",
			map[string]string{"name": "Ana", "region": "SP", "segment": "Retail"}))
		testutil.AssertStatus(t, rr, http.StatusCreated)
		managerID = testutil.UnmarshalResponse[managerhandler.Response](t, rr).ID
	})

	testutil.When(t, "a client earning 5000 in SP is assigned", func(t *testing.T) {
		rr := testutil.DoRequest(api, testutil.NewJSONRequest(t, http.MethodPost, "/clients", map[string]any{
			"name": "Joao", "tax_id": "111", "income": "5000", "region": "SP", "birth_date": "1990-05-01",
		}))
		testutil.AssertStatus(t, rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[assignmenthandler.ClientResponse](t, rr)
		clientID = resp.ID
		assert.Equal(t, "Retail", resp.Segment)
		assert.Equal(t, "Ana", resp.ManagerName)
	})

	testutil.Then(t, "the manager's roster contains the client", func(t *testing.T) {
		rr := testutil.DoRequest(api, testutil.NewRequest(t, http.MethodGet, "/managers/"+managerID))
		testutil.AssertStatusOK(t, rr)
		assert.Contains(t, testutil.UnmarshalResponse[managerhandler.Response](t, rr).Clients, clientID)
	})

	testutil.And(t, "the manager report lists the client", func(t *testing.T) {
		rr := testutil.DoRequest(api, testutil.NewRequest(t, http.MethodGet, "/reports/managers/Ana"))
		testutil.AssertStatusOK(t, rr)
		report := testutil.UnmarshalResponse[reporting.ManagerReport](t, rr)
		require.Len(t, report.Clients, 1)
		assert.Equal(t, "Joao", report.Clients[0].Name)
	})
}

func TestScenario_NoEligibleManager(t *testing.T) {
	api := newInMemoryAPI(t)

	testutil.Given(t, "only a Retail manager in SP", func(t *testing.T) {
		rr := testutil.DoRequest(api, testutil.NewJSONRequest(t, http.MethodPost, "/managers",
			map[string]string{"name": "Ana", "region": "SP", "segment": "Retail"}))
		testutil.AssertStatus(t, rr, http.StatusCreated)
	})

	testutil.When(t, "an Exclusive client is assigned", func(t *testing.T) {
		rr := testutil.DoRequest(api, testutil.NewJSONRequest(t, http.MethodPost, "/clients", map[string]any{
			"name": "Rita", "tax_id": "222", "income": 7000, "region": "SP", "birth_date": "1985-01-01",
		}))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})

	testutil.Then(t, "no client is stored", func(t *testing.T) {
		rr := testutil.DoRequest(api, testutil.NewRequest(t, http.MethodGet, "/reports/segments"))
		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[segmentsBody](t, rr)
		require.Len(t, resp.Segments, 1)
		assert.Empty(t, resp.Segments[0].Clients)
	})
}

type segmentsBody struct {
	Segments []reporting.SegmentGroup `json:"segments"`
}
