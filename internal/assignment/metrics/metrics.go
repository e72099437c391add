package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"accountdesk/pkg/domain"
)

// Metrics holds Prometheus metrics for client assignment.
type Metrics struct {
	AssignmentsTotal     *prometheus.CounterVec
	NoManagerTotal       *prometheus.CounterVec
	RosterUpdateFailures prometheus.Counter
	RostersRepaired      prometheus.Counter
	AssignmentDuration   prometheus.Histogram
	EventPublishFailures prometheus.Counter
}

// New creates and registers assignment metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AssignmentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accountdesk_assignments_total",
			Help: "Clients assigned to a manager, by segment",
		}, []string{"segment"}),
		NoManagerTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accountdesk_assignments_no_manager_total",
			Help: "Assignments aborted because no manager serves the region and segment",
		}, []string{"segment"}),
		RosterUpdateFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "accountdesk_roster_update_failures_total",
			Help: "Clients inserted whose manager roster could not be updated",
		}),
		RostersRepaired: factory.NewCounter(prometheus.CounterOpts{
			Name: "accountdesk_rosters_repaired_total",
			Help: "Roster entries restored by roster repair",
		}),
		AssignmentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "accountdesk_assignment_duration_seconds",
			Help:    "Time spent assigning a client",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		EventPublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "accountdesk_assignment_events_failed_total",
			Help: "ClientAssigned events that could not be published",
		}),
	}
}

func (m *Metrics) IncrementAssignments(segment domain.Segment) {
	m.AssignmentsTotal.WithLabelValues(segment.String()).Inc()
}

func (m *Metrics) IncrementNoManager(segment domain.Segment) {
	m.NoManagerTotal.WithLabelValues(segment.String()).Inc()
}

func (m *Metrics) IncrementRosterUpdateFailures() {
	m.RosterUpdateFailures.Inc()
}

func (m *Metrics) AddRostersRepaired(n int) {
	m.RostersRepaired.Add(float64(n))
}

func (m *Metrics) IncrementEventPublishFailures() {
	m.EventPublishFailures.Inc()
}

// ObserveAssignmentDuration records the time elapsed since start.
func (m *Metrics) ObserveAssignmentDuration(start time.Time) {
	m.AssignmentDuration.Observe(time.Since(start).Seconds())
}
