package league

import (
	"sync"

	"github.com/google/uuid"
)

// MockStore is a mock implementation of the LeagueStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	AddPlayerFunc           func(name string, avatar []byte) (PlayerInfo, error)
	GetPlayerFunc           func(playerID uuid.UUID) (*PlayerInfo, error)
	GetAllPlayersFunc       func() ([]PlayerInfo, error)
	DeletePlayerFunc        func(playerID uuid.UUID) error
	UpdateRatingsFunc       func(playerAID uuid.UUID, newRatingA int, playerBID uuid.UUID, newRatingB int) error
	InsertRecordFunc        func(record *MatchRecord) error
	GetRecordFunc           func(recordID uuid.UUID) (*MatchRecord, error)
	GetAllRecordsFunc       func() ([]*MatchRecord, error)
	GetRecordsForPlayerFunc func(playerID uuid.UUID) ([]*MatchRecord, error)
	DeleteRecordFunc        func(recordID uuid.UUID) error
	GetPlayerStatsFunc      func(playerID uuid.UUID) (*PlayerStats, error)
	GetLeaderboardFunc      func() ([]PlayerStats, error)

	// Call records
	AddPlayerCalls     []string
	DeletePlayerCalls  []uuid.UUID
	InsertRecordCalls  []*MatchRecord
	DeleteRecordCalls  []uuid.UUID
	UpdateRatingsCalls []UpdateRatingsCall
}

// UpdateRatingsCall holds the arguments for a call to UpdateRatings.
type UpdateRatingsCall struct {
	PlayerAID  uuid.UUID
	NewRatingA int
	PlayerBID  uuid.UUID
	NewRatingB int
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = nil
	m.DeletePlayerCalls = nil
	m.InsertRecordCalls = nil
	m.DeleteRecordCalls = nil
	m.UpdateRatingsCalls = nil
}

func (m *MockStore) AddPlayer(name string, avatar []byte) (PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = append(m.AddPlayerCalls, name)
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(name, avatar)
	}
	return PlayerInfo{ID: uuid.New(), Name: name}, nil
}

func (m *MockStore) GetPlayer(playerID uuid.UUID) (*PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetAllPlayers() ([]PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) DeletePlayer(playerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeletePlayerCalls = append(m.DeletePlayerCalls, playerID)
	if m.DeletePlayerFunc != nil {
		return m.DeletePlayerFunc(playerID)
	}
	return nil
}

func (m *MockStore) UpdateRatings(playerAID uuid.UUID, newRatingA int, playerBID uuid.UUID, newRatingB int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateRatingsCalls = append(m.UpdateRatingsCalls, UpdateRatingsCall{
		PlayerAID:  playerAID,
		NewRatingA: newRatingA,
		PlayerBID:  playerBID,
		NewRatingB: newRatingB,
	})
	if m.UpdateRatingsFunc != nil {
		return m.UpdateRatingsFunc(playerAID, newRatingA, playerBID, newRatingB)
	}
	return nil
}

func (m *MockStore) InsertRecord(record *MatchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertRecordCalls = append(m.InsertRecordCalls, record)
	if m.InsertRecordFunc != nil {
		return m.InsertRecordFunc(record)
	}
	return nil
}

func (m *MockStore) GetRecord(recordID uuid.UUID) (*MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRecordFunc != nil {
		return m.GetRecordFunc(recordID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetAllRecords() ([]*MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllRecordsFunc != nil {
		return m.GetAllRecordsFunc()
	}
	return nil, nil
}

func (m *MockStore) GetRecordsForPlayer(playerID uuid.UUID) ([]*MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRecordsForPlayerFunc != nil {
		return m.GetRecordsForPlayerFunc(playerID)
	}
	return nil, nil
}

func (m *MockStore) DeleteRecord(recordID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteRecordCalls = append(m.DeleteRecordCalls, recordID)
	if m.DeleteRecordFunc != nil {
		return m.DeleteRecordFunc(recordID)
	}
	return nil
}

func (m *MockStore) GetPlayerStats(playerID uuid.UUID) (*PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerStatsFunc != nil {
		return m.GetPlayerStatsFunc(playerID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetLeaderboard() ([]PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetLeaderboardFunc != nil {
		return m.GetLeaderboardFunc()
	}
	return nil, nil
}
