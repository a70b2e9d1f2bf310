package metrics

import "sync"

// MockMetrics is a no-op Metrics implementation that counts calls for tests.
type MockMetrics struct {
	mu sync.Mutex

	PointsScoredCalls     int
	UndoCalls             int
	SetsCompletedCalls    int
	MatchesCompletedCalls int
	MatchesAbandonedCalls int
	SnapshotFailureCalls  int
	MatchDurations        []float64
	StartupTimes          []float64
}

// NewMock creates a new mock metrics collector.
func NewMock() *MockMetrics {
	return &MockMetrics{}
}

func (m *MockMetrics) IncPointsScored() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PointsScoredCalls++
}

func (m *MockMetrics) IncUndos() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UndoCalls++
}

func (m *MockMetrics) IncSetsCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetsCompletedCalls++
}

func (m *MockMetrics) IncMatchesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchesCompletedCalls++
}

func (m *MockMetrics) IncMatchesAbandoned() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchesAbandonedCalls++
}

func (m *MockMetrics) IncSnapshotFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SnapshotFailureCalls++
}

func (m *MockMetrics) ObserveMatchDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchDurations = append(m.MatchDurations, seconds)
}

func (m *MockMetrics) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTimes = append(m.StartupTimes, seconds)
}
