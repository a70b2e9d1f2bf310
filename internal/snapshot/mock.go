package snapshot

import (
	"sync"

	"github.com/laurentkvb/squash-go/internal/match"
)

// MockStore is an in-memory Store for testing.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	SaveFunc  func(m *match.LiveMatch) error
	LoadFunc  func() (*match.LiveMatch, error)
	ClearFunc func() error

	// Call records
	SaveCalls  []*match.LiveMatch
	ClearCalls int

	stored *match.LiveMatch
}

// NewMock creates a new mock snapshot store.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Save(lm *match.LiveMatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, lm)
	if m.SaveFunc != nil {
		return m.SaveFunc(lm)
	}
	m.stored = lm
	return nil
}

func (m *MockStore) Load() (*match.LiveMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return m.stored, nil
}

func (m *MockStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	if m.ClearFunc != nil {
		return m.ClearFunc()
	}
	m.stored = nil
	return nil
}
