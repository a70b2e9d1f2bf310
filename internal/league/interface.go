package league

import (
	"errors"

	"github.com/google/uuid"
)

// LeagueStore defines the interface for interacting with the league's data.
type LeagueStore interface {
	AddPlayer(name string, avatar []byte) (PlayerInfo, error)
	GetPlayer(playerID uuid.UUID) (*PlayerInfo, error)
	GetAllPlayers() ([]PlayerInfo, error)
	DeletePlayer(playerID uuid.UUID) error
	UpdateRatings(playerAID uuid.UUID, newRatingA int, playerBID uuid.UUID, newRatingB int) error

	InsertRecord(record *MatchRecord) error
	GetRecord(recordID uuid.UUID) (*MatchRecord, error)
	GetAllRecords() ([]*MatchRecord, error)
	GetRecordsForPlayer(playerID uuid.UUID) ([]*MatchRecord, error)
	DeleteRecord(recordID uuid.UUID) error

	GetPlayerStats(playerID uuid.UUID) (*PlayerStats, error)
	GetLeaderboard() ([]PlayerStats, error)
}

// ErrNotFound is returned when a referenced player or record does not exist.
// Callers are expected to degrade to an empty state rather than fail hard.
var ErrNotFound = errors.New("not found")
