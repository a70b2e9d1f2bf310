package match

import (
	"time"

	"github.com/google/uuid"
	"github.com/laurentkvb/squash-go/internal/scoring"
)

// New creates a fresh LiveMatch between two players with zeroed scores and
// set tallies, starting at set 1.
func New(playerAID, playerBID uuid.UUID, playerAName, playerBName string, settings scoring.Settings, startDate time.Time) *LiveMatch {
	return &LiveMatch{
		PlayerAID:        playerAID,
		PlayerBID:        playerBID,
		PlayerAName:      playerAName,
		PlayerBName:      playerBName,
		StartDate:        startDate,
		Settings:         settings,
		ScoreHistory:     []PointSnapshot{},
		CompletedSets:    []SetResult{},
		CurrentSetNumber: 1,
	}
}

// AddPoint records the pre-point score and then awards one point to the given
// side. Scores are unbounded here: the set outcome rule, not the aggregate,
// decides when a set ends, so deuce play past the target works naturally.
func (m *LiveMatch) AddPoint(side scoring.Side) {
	m.ScoreHistory = append(m.ScoreHistory, PointSnapshot{
		ScoreA:    m.ScoreA,
		ScoreB:    m.ScoreB,
		Timestamp: time.Now(),
	})
	if side == scoring.SideA {
		m.ScoreA++
	} else {
		m.ScoreB++
	}
}

// UndoLastPoint restores the score to the most recent pre-point snapshot.
// With no points in the current set it is a no-op; undo never crosses a set
// boundary.
func (m *LiveMatch) UndoLastPoint() {
	if len(m.ScoreHistory) == 0 {
		return
	}
	last := m.ScoreHistory[len(m.ScoreHistory)-1]
	m.ScoreHistory = m.ScoreHistory[:len(m.ScoreHistory)-1]
	m.ScoreA = last.ScoreA
	m.ScoreB = last.ScoreB
}

// CanUndo reports whether any point of the current set can still be undone.
func (m *LiveMatch) CanUndo() bool {
	return len(m.ScoreHistory) > 0
}

// CompleteSet closes the current set for the given winner. The set's point
// history is assembled from an implicit 0-0 opener, every pre-point snapshot,
// and the final score (when not already the last entry). Scores reset to zero
// for the next set.
func (m *LiveMatch) CompleteSet(winner scoring.Side) {
	history := make([]PointSnapshot, 0, len(m.ScoreHistory)+2)
	history = append(history, PointSnapshot{Timestamp: time.Now()})
	history = append(history, m.ScoreHistory...)

	last := history[len(history)-1]
	if last.ScoreA != m.ScoreA || last.ScoreB != m.ScoreB {
		history = append(history, PointSnapshot{
			ScoreA:    m.ScoreA,
			ScoreB:    m.ScoreB,
			Timestamp: time.Now(),
		})
	}

	m.CompletedSets = append(m.CompletedSets, SetResult{
		SetNumber:    m.CurrentSetNumber,
		FinalScoreA:  m.ScoreA,
		FinalScoreB:  m.ScoreB,
		Winner:       winner,
		PointHistory: history,
	})

	if winner == scoring.SideA {
		m.SetsWonA++
	} else {
		m.SetsWonB++
	}

	m.ScoreA = 0
	m.ScoreB = 0
	m.ScoreHistory = m.ScoreHistory[:0]
	m.CurrentSetNumber++
}

// MatchWinner reports whether either side has reached the sets-to-win
// threshold for the configured mode. Set tallies only move through
// CompleteSet, so at most one side can have crossed the threshold.
func (m *LiveMatch) MatchWinner() (bool, scoring.Side) {
	needed := m.Settings.Mode.SetsToWin()
	if m.SetsWonA >= needed {
		return true, scoring.SideA
	}
	if m.SetsWonB >= needed {
		return true, scoring.SideB
	}
	return false, ""
}

// PlayerName resolves a side to the player's display name.
func (m *LiveMatch) PlayerName(side scoring.Side) string {
	if side == scoring.SideA {
		return m.PlayerAName
	}
	return m.PlayerBName
}
