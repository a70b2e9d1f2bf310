package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		PointsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squash_points_scored_total",
			Help: "The total number of points recorded across all matches.",
		}),
		Undos: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squash_points_undone_total",
			Help: "The total number of undo operations applied.",
		}),
		SetsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squash_sets_completed_total",
			Help: "The total number of sets completed.",
		}),
		MatchesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squash_matches_completed_total",
			Help: "The total number of matches finalized with a winner.",
		}),
		MatchesAbandoned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squash_matches_abandoned_total",
			Help: "The total number of matches ended without a winner.",
		}),
		SnapshotFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squash_snapshot_persist_failures_total",
			Help: "The total number of failed snapshot writes. Failures are non-fatal.",
		}),
		MatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "squash_match_duration_seconds",
			Help:    "The duration of finalized matches.",
			Buckets: []float64{60, 300, 600, 900, 1800, 2700, 3600, 5400},
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "squash_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.PointsScored,
		s.Undos,
		s.SetsCompleted,
		s.MatchesCompleted,
		s.MatchesAbandoned,
		s.SnapshotFailures,
		s.MatchDuration,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncPointsScored() {
	s.PointsScored.Inc()
}

func (s *Service) IncUndos() {
	s.Undos.Inc()
}

func (s *Service) IncSetsCompleted() {
	s.SetsCompleted.Inc()
}

func (s *Service) IncMatchesCompleted() {
	s.MatchesCompleted.Inc()
}

func (s *Service) IncMatchesAbandoned() {
	s.MatchesAbandoned.Inc()
}

func (s *Service) IncSnapshotFailures() {
	s.SnapshotFailures.Inc()
}

func (s *Service) ObserveMatchDuration(seconds float64) {
	s.MatchDuration.Observe(seconds)
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupTimeSeconds.Set(seconds)
}
