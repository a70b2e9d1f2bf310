package snapshot

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/laurentkvb/squash-go/internal/match"
	"github.com/vmihailenco/msgpack/v5"
)

// activeMatchKey is the single well-known key the in-progress match lives under.
const activeMatchKey = "active-match"

type store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a snapshot Store backed by the snapshots table.
func New(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) Save(m *match.LiveMatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := msgpack.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode match snapshot: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		activeMatchKey, blob, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to persist match snapshot: %w", err)
	}
	log.Debug("Persisted match snapshot", "bytes", len(blob))
	return nil
}

// Load returns the stored match, or nil when no snapshot exists.
func (s *store) Load() (*match.LiveMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var blob []byte
	err := s.db.QueryRow("SELECT value FROM snapshots WHERE key = ?", activeMatchKey).Scan(&blob)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load match snapshot: %w", err)
	}

	var m match.LiveMatch
	if err := msgpack.Unmarshal(blob, &m); err != nil {
		return nil, fmt.Errorf("failed to decode match snapshot: %w", err)
	}
	return &m, nil
}

func (s *store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM snapshots WHERE key = ?", activeMatchKey); err != nil {
		return fmt.Errorf("failed to clear match snapshot: %w", err)
	}
	return nil
}
