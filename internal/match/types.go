package match

import (
	"time"

	"github.com/google/uuid"
	"github.com/laurentkvb/squash-go/internal/scoring"
)

// PointSnapshot records the score before a point was applied. The trailing
// snapshot of a set's point history additionally carries the final score.
type PointSnapshot struct {
	ScoreA    int       `json:"score_a" msgpack:"score_a"`
	ScoreB    int       `json:"score_b" msgpack:"score_b"`
	Timestamp time.Time `json:"timestamp" msgpack:"timestamp"`
}

// SetResult is a completed set, including the point-by-point history from 0-0
// through the final score so a full replay can be reconstructed.
type SetResult struct {
	SetNumber    int             `json:"set_number" msgpack:"set_number"`
	FinalScoreA  int             `json:"final_score_a" msgpack:"final_score_a"`
	FinalScoreB  int             `json:"final_score_b" msgpack:"final_score_b"`
	Winner       scoring.Side    `json:"winner" msgpack:"winner"`
	PointHistory []PointSnapshot `json:"point_history" msgpack:"point_history"`
}

// LiveMatch is the active-match aggregate: current set scores, per-set undo
// history, and the accumulated set results. It is mutated in place by the
// session manager and serialized wholesale for the snapshot store.
type LiveMatch struct {
	PlayerAID   uuid.UUID `json:"player_a_id" msgpack:"player_a_id"`
	PlayerBID   uuid.UUID `json:"player_b_id" msgpack:"player_b_id"`
	PlayerAName string    `json:"player_a_name" msgpack:"player_a_name"`
	PlayerBName string    `json:"player_b_name" msgpack:"player_b_name"`

	ScoreA    int              `json:"score_a" msgpack:"score_a"`
	ScoreB    int              `json:"score_b" msgpack:"score_b"`
	StartDate time.Time        `json:"start_date" msgpack:"start_date"`
	Settings  scoring.Settings `json:"settings" msgpack:"settings"`

	// ScoreHistory holds one pre-point snapshot per point applied in the
	// current set only. Undo pops from here; set completion drains it.
	ScoreHistory []PointSnapshot `json:"score_history" msgpack:"score_history"`

	SetsWonA         int         `json:"sets_won_a" msgpack:"sets_won_a"`
	SetsWonB         int         `json:"sets_won_b" msgpack:"sets_won_b"`
	CompletedSets    []SetResult `json:"completed_sets" msgpack:"completed_sets"`
	CurrentSetNumber int         `json:"current_set_number" msgpack:"current_set_number"`
}
