package session

import (
	"errors"
	"sync"
	"time"

	"github.com/laurentkvb/squash-go/internal/events"
	"github.com/laurentkvb/squash-go/internal/league"
	"github.com/laurentkvb/squash-go/internal/match"
	"github.com/laurentkvb/squash-go/internal/metrics"
	"github.com/laurentkvb/squash-go/internal/scoring"
	"github.com/laurentkvb/squash-go/internal/snapshot"
)

// Manager owns the single active match and drives it through its lifecycle:
// start, point-by-point progression, snapshot persistence, and finalization
// into a historical record with rating updates. It is an explicit service
// object; the active match is the only optional piece of state.
type Manager struct {
	mu        sync.Mutex
	store     league.LeagueStore
	snapshots snapshot.Store
	bus       events.Bus
	metrics   metrics.Metrics
	now       func() time.Time

	active *match.LiveMatch
}

// State describes where the match progression landed after an event.
type State string

const (
	StateInProgress     State = "IN_PROGRESS"
	StateSetCompleted   State = "SET_COMPLETED"
	StateMatchCompleted State = "MATCH_COMPLETED"
)

// Progress is returned after a point event: which state the match moved to
// and, when a set or the match just closed, who took it.
type Progress struct {
	State       State        `json:"state"`
	SetWinner   scoring.Side `json:"set_winner,omitempty"`
	SetNumber   int          `json:"set_number,omitempty"`
	MatchWinner scoring.Side `json:"match_winner,omitempty"`
}

var (
	// ErrNoActiveMatch is returned by operations that need a live match.
	ErrNoActiveMatch = errors.New("no active match")
	// ErrMatchInProgress is returned when starting a match while one is live.
	ErrMatchInProgress = errors.New("a match is already in progress")
	// ErrMatchDecided is returned for point events after the match winner
	// has been detected.
	ErrMatchDecided = errors.New("match already has a winner")
	// ErrSamePlayer is returned when both slots name the same player.
	ErrSamePlayer = errors.New("players must be distinct")
	// ErrMatchUndecided is returned when finalizing a match without a winner.
	ErrMatchUndecided = errors.New("match has no winner yet")
)

// PointEvent is published on every scored or undone point.
type PointEvent struct {
	ScoreA    int          `json:"score_a" msgpack:"score_a"`
	ScoreB    int          `json:"score_b" msgpack:"score_b"`
	Side      scoring.Side `json:"side,omitempty" msgpack:"side,omitempty"`
	SetNumber int          `json:"set_number" msgpack:"set_number"`
}

// SetEvent is published when a set completes.
type SetEvent struct {
	SetNumber int          `json:"set_number" msgpack:"set_number"`
	ScoreA    int          `json:"score_a" msgpack:"score_a"`
	ScoreB    int          `json:"score_b" msgpack:"score_b"`
	Winner    scoring.Side `json:"winner" msgpack:"winner"`
}

// MatchEvent is published when a match completes or is abandoned.
type MatchEvent struct {
	Winner        scoring.Side `json:"winner,omitempty" msgpack:"winner,omitempty"`
	SetsWonA      int          `json:"sets_won_a" msgpack:"sets_won_a"`
	SetsWonB      int          `json:"sets_won_b" msgpack:"sets_won_b"`
	Abandoned     bool         `json:"abandoned" msgpack:"abandoned"`
	AbandonReason string       `json:"abandon_reason,omitempty" msgpack:"abandon_reason,omitempty"`
}

// RatingsEvent is published after player ratings change.
type RatingsEvent struct {
	PlayerAID  string `json:"player_a_id" msgpack:"player_a_id"`
	PlayerBID  string `json:"player_b_id" msgpack:"player_b_id"`
	NewRatingA int    `json:"new_rating_a" msgpack:"new_rating_a"`
	NewRatingB int    `json:"new_rating_b" msgpack:"new_rating_b"`
	ChangeA    int    `json:"change_a" msgpack:"change_a"`
	ChangeB    int    `json:"change_b" msgpack:"change_b"`
}
