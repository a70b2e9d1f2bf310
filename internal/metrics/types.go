package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	PointsScored       prometheus.Counter
	Undos              prometheus.Counter
	SetsCompleted      prometheus.Counter
	MatchesCompleted   prometheus.Counter
	MatchesAbandoned   prometheus.Counter
	SnapshotFailures   prometheus.Counter
	MatchDuration      prometheus.Histogram
	StartupTimeSeconds prometheus.Gauge
}
