package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/laurentkvb/squash-go/internal/events"
	"github.com/laurentkvb/squash-go/internal/league"
	"github.com/laurentkvb/squash-go/internal/match"
	"github.com/laurentkvb/squash-go/internal/metrics"
	"github.com/laurentkvb/squash-go/internal/scoring"
	"github.com/laurentkvb/squash-go/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	manager   *Manager
	store     *league.MockStore
	snapshots *snapshot.MockStore
	bus       *events.MockBus
	metrics   *metrics.MockMetrics
	playerA   league.PlayerInfo
	playerB   league.PlayerInfo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:     league.NewMock(),
		snapshots: snapshot.NewMock(),
		bus:       events.NewMock(),
		metrics:   metrics.NewMock(),
		playerA:   league.PlayerInfo{ID: uuid.New(), Name: "Alice", EloRating: 1200},
		playerB:   league.PlayerInfo{ID: uuid.New(), Name: "Bob", EloRating: 1200},
	}
	f.store.GetPlayerFunc = func(playerID uuid.UUID) (*league.PlayerInfo, error) {
		switch playerID {
		case f.playerA.ID:
			p := f.playerA
			return &p, nil
		case f.playerB.ID:
			p := f.playerB
			return &p, nil
		}
		return nil, league.ErrNotFound
	}
	f.manager = New(f.store, f.snapshots, f.bus, f.metrics)
	return f
}

func (f *fixture) start(t *testing.T, settings scoring.Settings) *match.LiveMatch {
	t.Helper()
	lm, err := f.manager.Start(f.playerA.ID, f.playerB.ID, settings)
	require.NoError(t, err)
	return lm
}

// winSet scores target points for one side, completing the current set.
func winSet(t *testing.T, m *Manager, side scoring.Side, target int) Progress {
	t.Helper()
	var progress Progress
	var err error
	for i := 0; i < target; i++ {
		progress, err = m.RecordPoint(side)
		require.NoError(t, err)
	}
	return progress
}

func TestStart(t *testing.T) {
	t.Run("creates a zeroed match and persists a snapshot", func(t *testing.T) {
		f := newFixture(t)

		lm := f.start(t, scoring.DefaultSettings())

		assert.Equal(t, 0, lm.ScoreA)
		assert.Equal(t, 0, lm.ScoreB)
		assert.Equal(t, 1, lm.CurrentSetNumber)
		assert.Equal(t, "Alice", lm.PlayerAName)
		require.NotEmpty(t, f.snapshots.SaveCalls)
		assert.Same(t, lm, f.manager.Current())
	})

	t.Run("rejects the same player in both slots", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.manager.Start(f.playerA.ID, f.playerA.ID, scoring.DefaultSettings())
		assert.ErrorIs(t, err, ErrSamePlayer)
	})

	t.Run("rejects unknown players", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.manager.Start(f.playerA.ID, uuid.New(), scoring.DefaultSettings())
		assert.ErrorIs(t, err, league.ErrNotFound)
	})

	t.Run("rejects a second concurrent match", func(t *testing.T) {
		f := newFixture(t)
		f.start(t, scoring.DefaultSettings())
		_, err := f.manager.Start(f.playerA.ID, f.playerB.ID, scoring.DefaultSettings())
		assert.ErrorIs(t, err, ErrMatchInProgress)
	})
}

func TestRecordPoint_ProgressesThroughSetsAndMatch(t *testing.T) {
	f := newFixture(t)
	settings := scoring.Settings{Mode: scoring.BestOf3, TargetScore: 11, WinByTwo: true}
	f.start(t, settings)

	progress := winSet(t, f.manager, scoring.SideA, 11)
	assert.Equal(t, StateSetCompleted, progress.State)
	assert.Equal(t, scoring.SideA, progress.SetWinner)
	assert.Equal(t, 1, progress.SetNumber)

	lm := f.manager.Current()
	assert.Equal(t, 0, lm.ScoreA, "scores reset at the set boundary")
	assert.Equal(t, 2, lm.CurrentSetNumber)

	progress = winSet(t, f.manager, scoring.SideA, 11)
	assert.Equal(t, StateMatchCompleted, progress.State)
	assert.Equal(t, scoring.SideA, progress.MatchWinner)

	_, err := f.manager.RecordPoint(scoring.SideA)
	assert.ErrorIs(t, err, ErrMatchDecided, "no points accepted after the match is decided")

	setEvents := f.bus.TopicCalls(events.EventSetCompleted)
	require.Len(t, setEvents, 2)
	matchEvents := f.bus.TopicCalls(events.EventMatchCompleted)
	require.Len(t, matchEvents, 1)
	assert.Equal(t, 22, f.metrics.PointsScoredCalls)
	assert.Equal(t, 2, f.metrics.SetsCompletedCalls)
}

func TestRecordPoint_DeucePlayContinuesPastTarget(t *testing.T) {
	f := newFixture(t)
	f.start(t, scoring.DefaultSettings())

	// Trade points to 10-10, then push A to 11-10: still no set.
	for i := 0; i < 10; i++ {
		_, err := f.manager.RecordPoint(scoring.SideA)
		require.NoError(t, err)
		_, err = f.manager.RecordPoint(scoring.SideB)
		require.NoError(t, err)
	}
	progress, err := f.manager.RecordPoint(scoring.SideA)
	require.NoError(t, err)
	assert.Equal(t, StateInProgress, progress.State)

	progress, err = f.manager.RecordPoint(scoring.SideA)
	require.NoError(t, err)
	assert.Equal(t, StateMatchCompleted, progress.State, "12-10 closes the set, and the single-set match")
}

func TestUndoPoint(t *testing.T) {
	f := newFixture(t)
	f.start(t, scoring.DefaultSettings())

	require.NoError(t, f.manager.UndoPoint(), "undo with empty history is a no-op")
	assert.Equal(t, 0, f.metrics.UndoCalls)

	_, err := f.manager.RecordPoint(scoring.SideA)
	require.NoError(t, err)
	require.NoError(t, f.manager.UndoPoint())

	lm := f.manager.Current()
	assert.Equal(t, 0, lm.ScoreA)
	assert.Empty(t, lm.ScoreHistory)
	assert.Equal(t, 1, f.metrics.UndoCalls)
}

func TestFinalize(t *testing.T) {
	t.Run("rejects an undecided match", func(t *testing.T) {
		f := newFixture(t)
		f.start(t, scoring.DefaultSettings())
		_, err := f.manager.Finalize("")
		assert.ErrorIs(t, err, ErrMatchUndecided)
	})

	t.Run("multi-set match records the sets-won tally and applies ratings", func(t *testing.T) {
		f := newFixture(t)
		settings := scoring.Settings{Mode: scoring.BestOf3, TargetScore: 11, WinByTwo: true}
		f.start(t, settings)
		winSet(t, f.manager, scoring.SideA, 11)
		winSet(t, f.manager, scoring.SideB, 11)
		winSet(t, f.manager, scoring.SideA, 11)

		record, err := f.manager.Finalize("league night")
		require.NoError(t, err)

		assert.Equal(t, 2, record.ScoreA)
		assert.Equal(t, 1, record.ScoreB)
		assert.Equal(t, 16, record.EloChangeA)
		assert.Equal(t, -16, record.EloChangeB)
		assert.Equal(t, "league night", record.Notes)
		assert.Len(t, record.SetScores, 3)

		require.Len(t, f.store.UpdateRatingsCalls, 1)
		assert.Equal(t, 1216, f.store.UpdateRatingsCalls[0].NewRatingA)
		assert.Equal(t, 1184, f.store.UpdateRatingsCalls[0].NewRatingB)
		require.Len(t, f.store.InsertRecordCalls, 1)

		assert.Nil(t, f.manager.Current(), "the session is cleared")
		stored, _ := f.snapshots.Load()
		assert.Nil(t, stored, "the snapshot is removed")
		assert.Equal(t, 1, f.metrics.MatchesCompletedCalls)
	})

	t.Run("single-set match records raw points", func(t *testing.T) {
		f := newFixture(t)
		f.start(t, scoring.DefaultSettings())
		winSet(t, f.manager, scoring.SideB, 11)

		record, err := f.manager.Finalize("")
		require.NoError(t, err)
		assert.Equal(t, 0, record.ScoreA)
		assert.Equal(t, 11, record.ScoreB)
		assert.Equal(t, -16, record.EloChangeA)
		assert.Equal(t, 16, record.EloChangeB)
	})

	t.Run("failed insert moves no ratings and a retry applies them once", func(t *testing.T) {
		f := newFixture(t)
		f.start(t, scoring.DefaultSettings())
		winSet(t, f.manager, scoring.SideA, 11)

		failures := 1
		f.store.InsertRecordFunc = func(*league.MatchRecord) error {
			if failures > 0 {
				failures--
				return assert.AnError
			}
			return nil
		}

		_, err := f.manager.Finalize("")
		require.Error(t, err)
		assert.Empty(t, f.store.UpdateRatingsCalls, "ratings stay untouched when the record is not stored")
		require.NotNil(t, f.manager.Current(), "the session stays active for a retry")

		record, err := f.manager.Finalize("")
		require.NoError(t, err)
		assert.Equal(t, 16, record.EloChangeA)
		require.Len(t, f.store.UpdateRatingsCalls, 1, "the retry applies the deltas exactly once")
		assert.Equal(t, 1216, f.store.UpdateRatingsCalls[0].NewRatingA)
	})

	t.Run("missing player degrades to a zero rating change", func(t *testing.T) {
		f := newFixture(t)
		f.start(t, scoring.DefaultSettings())
		winSet(t, f.manager, scoring.SideA, 11)

		// Player B is deleted mid-match.
		deleted := f.playerB.ID
		f.store.GetPlayerFunc = func(playerID uuid.UUID) (*league.PlayerInfo, error) {
			if playerID == deleted {
				return nil, league.ErrNotFound
			}
			p := f.playerA
			return &p, nil
		}

		record, err := f.manager.Finalize("")
		require.NoError(t, err, "finalization still succeeds")
		assert.Zero(t, record.EloChangeA)
		assert.Zero(t, record.EloChangeB)
		assert.Empty(t, f.store.UpdateRatingsCalls)
	})
}

func TestAbandon_NoRatingChange(t *testing.T) {
	f := newFixture(t)
	settings := scoring.Settings{Mode: scoring.BestOf3, TargetScore: 11, WinByTwo: true}
	f.start(t, settings)
	winSet(t, f.manager, scoring.SideA, 11)
	_, err := f.manager.RecordPoint(scoring.SideB)
	require.NoError(t, err)

	record, err := f.manager.Abandon("injury")
	require.NoError(t, err)

	assert.True(t, record.Abandoned)
	assert.Equal(t, "injury", record.AbandonReason)
	assert.Equal(t, 1, record.ScoreA, "the partial sets tally is kept")
	assert.Equal(t, 0, record.ScoreB)
	assert.Zero(t, record.EloChangeA)
	assert.Zero(t, record.EloChangeB)
	assert.Empty(t, f.store.UpdateRatingsCalls, "abandoned matches never move ratings")

	assert.Nil(t, f.manager.Current())
	assert.Equal(t, 1, f.metrics.MatchesAbandonedCalls)
	require.Len(t, f.bus.TopicCalls(events.EventMatchAbandoned), 1)
}

func TestRematchAndAdopt(t *testing.T) {
	f := newFixture(t)
	settings := scoring.Settings{Mode: scoring.BestOf3, TargetScore: 11, WinByTwo: true}
	original := f.start(t, settings)
	winSet(t, f.manager, scoring.SideA, 11)
	winSet(t, f.manager, scoring.SideA, 11)

	fresh, err := f.manager.Rematch()
	require.NoError(t, err)

	assert.Equal(t, original.PlayerAID, fresh.PlayerAID)
	assert.Equal(t, original.Settings, fresh.Settings)
	assert.Equal(t, 0, fresh.ScoreA)
	assert.Empty(t, fresh.CompletedSets)
	assert.Equal(t, 2, original.SetsWonA, "the original match is untouched")

	err = f.manager.Adopt(fresh)
	assert.ErrorIs(t, err, ErrMatchInProgress, "the old match must be finalized first")

	_, err = f.manager.Finalize("")
	require.NoError(t, err)
	require.NoError(t, f.manager.Adopt(fresh))
	assert.Same(t, fresh, f.manager.Current())
}

func TestResume(t *testing.T) {
	t.Run("no snapshot means no session", func(t *testing.T) {
		f := newFixture(t)
		lm, err := f.manager.Resume()
		require.NoError(t, err)
		assert.Nil(t, lm)
	})

	t.Run("restores an interrupted match", func(t *testing.T) {
		f := newFixture(t)
		saved := match.New(f.playerA.ID, f.playerB.ID, "Alice", "Bob", scoring.DefaultSettings(), time.Now())
		saved.AddPoint(scoring.SideA)
		saved.AddPoint(scoring.SideB)
		require.NoError(t, f.snapshots.Save(saved))

		lm, err := f.manager.Resume()
		require.NoError(t, err)
		require.NotNil(t, lm)
		assert.Equal(t, 1, lm.ScoreA)
		assert.Equal(t, 1, lm.ScoreB)
	})

	t.Run("re-detects a winning score persisted before the set closed", func(t *testing.T) {
		f := newFixture(t)
		saved := match.New(f.playerA.ID, f.playerB.ID, "Alice", "Bob", scoring.DefaultSettings(), time.Now())
		for i := 0; i < 11; i++ {
			saved.AddPoint(scoring.SideA)
		}
		require.NoError(t, f.snapshots.Save(saved))

		lm, err := f.manager.Resume()
		require.NoError(t, err)
		require.NotNil(t, lm)

		decided, winner := lm.MatchWinner()
		assert.True(t, decided, "the winner check re-runs on resume")
		assert.Equal(t, scoring.SideA, winner)
	})
}

func TestRecordManualMatch(t *testing.T) {
	f := newFixture(t)
	playedAt := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	record, err := f.manager.RecordManualMatch(f.playerA.ID, f.playerB.ID, 11, 7, playedAt, "paper scoresheet")
	require.NoError(t, err)

	assert.Equal(t, 11, record.ScoreA)
	assert.Equal(t, 7, record.ScoreB)
	assert.Equal(t, playedAt, record.PlayedAt)
	assert.Equal(t, 16, record.EloChangeA)
	assert.Equal(t, -16, record.EloChangeB)
	require.Len(t, f.store.InsertRecordCalls, 1)
	require.Len(t, f.store.UpdateRatingsCalls, 1)

	_, err = f.manager.RecordManualMatch(f.playerA.ID, f.playerA.ID, 11, 7, playedAt, "")
	assert.ErrorIs(t, err, ErrSamePlayer)
}

func TestSnapshotFailuresAreSwallowed(t *testing.T) {
	f := newFixture(t)
	f.start(t, scoring.DefaultSettings())
	f.snapshots.SaveFunc = func(*match.LiveMatch) error { return assert.AnError }

	_, err := f.manager.RecordPoint(scoring.SideA)
	require.NoError(t, err, "a snapshot write failure never fails the point")
	assert.Equal(t, 1, f.manager.Current().ScoreA)
	assert.Equal(t, 1, f.metrics.SnapshotFailureCalls)
}

func TestElapsed(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Elapsed()
	assert.ErrorIs(t, err, ErrNoActiveMatch)

	lm := f.start(t, scoring.DefaultSettings())
	f.manager.now = func() time.Time { return lm.StartDate.Add(5 * time.Minute) }

	elapsed, err := f.manager.Elapsed()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, elapsed)
}
