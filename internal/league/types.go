package league

import (
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/laurentkvb/squash-go/internal/match"
	"github.com/laurentkvb/squash-go/internal/scoring"
)

// store handles all database operations for the league.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// PlayerInfo represents a player in the store.
type PlayerInfo struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Avatar    []byte    `json:"avatar,omitempty"`
	EloRating int       `json:"elo_rating"`
	CreatedAt time.Time `json:"created_at"`
}

// MatchRecord is a finalized, immutable match result. ScoreA/ScoreB hold the
// set tally for multi-set matches and raw points for single-set ones.
type MatchRecord struct {
	ID            uuid.UUID         `json:"id"`
	PlayerAID     uuid.UUID         `json:"player_a_id"`
	PlayerBID     uuid.UUID         `json:"player_b_id"`
	PlayerAName   string            `json:"player_a_name"`
	PlayerBName   string            `json:"player_b_name"`
	ScoreA        int               `json:"score_a"`
	ScoreB        int               `json:"score_b"`
	PlayedAt      time.Time         `json:"played_at"`
	Notes         string            `json:"notes,omitempty"`
	EloChangeA    int               `json:"elo_change_a"`
	EloChangeB    int               `json:"elo_change_b"`
	Duration      time.Duration     `json:"duration"`
	Mode          scoring.MatchMode `json:"match_mode"`
	SetScores     []match.SetResult `json:"set_scores,omitempty"`
	Abandoned     bool              `json:"abandoned"`
	AbandonReason string            `json:"abandon_reason,omitempty"`
}

// Winner returns the winning side, or false for an undecided result.
func (r *MatchRecord) Winner() (scoring.Side, bool) {
	switch {
	case r.ScoreA > r.ScoreB:
		return scoring.SideA, true
	case r.ScoreB > r.ScoreA:
		return scoring.SideB, true
	}
	return "", false
}

// PlayerStats represents a player's aggregate results for the leaderboard.
type PlayerStats struct {
	PlayerID      uuid.UUID `json:"player_id"`
	PlayerName    string    `json:"player_name"`
	EloRating     int       `json:"elo_rating"`
	MatchesPlayed int       `json:"matches_played"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	WinPercentage float64   `json:"win_percentage"`
}
