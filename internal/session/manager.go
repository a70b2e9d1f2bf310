package session

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/laurentkvb/squash-go/internal/elo"
	"github.com/laurentkvb/squash-go/internal/events"
	"github.com/laurentkvb/squash-go/internal/league"
	"github.com/laurentkvb/squash-go/internal/match"
	"github.com/laurentkvb/squash-go/internal/metrics"
	"github.com/laurentkvb/squash-go/internal/scoring"
	"github.com/laurentkvb/squash-go/internal/snapshot"
)

// New creates a session Manager.
func New(store league.LeagueStore, snapshots snapshot.Store, bus events.Bus, metricsSvc metrics.Metrics) *Manager {
	return &Manager{
		store:     store,
		snapshots: snapshots,
		bus:       bus,
		metrics:   metricsSvc,
		now:       time.Now,
	}
}

// Start begins a new match between two stored players. Fails when a match is
// already live, when the players are not distinct, or when either player is
// unknown.
func (s *Manager) Start(playerAID, playerBID uuid.UUID, settings scoring.Settings) (*match.LiveMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return nil, ErrMatchInProgress
	}
	if playerAID == playerBID {
		return nil, ErrSamePlayer
	}

	playerA, err := s.store.GetPlayer(playerAID)
	if err != nil {
		return nil, fmt.Errorf("player A: %w", err)
	}
	playerB, err := s.store.GetPlayer(playerBID)
	if err != nil {
		return nil, fmt.Errorf("player B: %w", err)
	}

	lm := match.New(playerA.ID, playerB.ID, playerA.Name, playerB.Name, settings, s.now())
	s.active = lm
	s.persistSnapshot()
	log.Info("Match started", "playerA", playerA.Name, "playerB", playerB.Name, "mode", settings.Mode)
	return lm, nil
}

// Current returns the active match, or nil when none is live.
func (s *Manager) Current() *match.LiveMatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Elapsed returns the time since the active match started. Purely
// observational; it never mutates match state.
func (s *Manager) Elapsed() (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return 0, ErrNoActiveMatch
	}
	return s.now().Sub(s.active.StartDate), nil
}

// RecordPoint applies one point for the given side and advances the match:
// set completion and the match-winner check run after every point. Points are
// rejected once the match winner is known.
func (s *Manager) RecordPoint(side scoring.Side) (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return Progress{}, ErrNoActiveMatch
	}
	if decided, _ := s.active.MatchWinner(); decided {
		return Progress{}, ErrMatchDecided
	}

	s.active.AddPoint(side)
	s.metrics.IncPointsScored()
	s.persistSnapshot()
	s.bus.Publish(events.EventPointScored, PointEvent{
		ScoreA:    s.active.ScoreA,
		ScoreB:    s.active.ScoreB,
		Side:      side,
		SetNumber: s.active.CurrentSetNumber,
	})

	return s.advanceLocked(), nil
}

// UndoPoint reverts the most recent point of the current set. With nothing to
// undo it silently succeeds; undo never crosses a completed set boundary.
func (s *Manager) UndoPoint() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return ErrNoActiveMatch
	}
	if !s.active.CanUndo() {
		return nil
	}

	s.active.UndoLastPoint()
	s.metrics.IncUndos()
	s.persistSnapshot()
	s.bus.Publish(events.EventPointUndone, PointEvent{
		ScoreA:    s.active.ScoreA,
		ScoreB:    s.active.ScoreB,
		SetNumber: s.active.CurrentSetNumber,
	})
	return nil
}

// advanceLocked runs the controller loop after a mutation: evaluate the set
// outcome, close the set if over, then check for a match winner. Caller holds
// the lock.
func (s *Manager) advanceLocked() Progress {
	lm := s.active
	outcome := scoring.EvaluateSet(lm.ScoreA, lm.ScoreB, lm.Settings)
	if !outcome.Over {
		return Progress{State: StateInProgress}
	}

	completedSetNumber := lm.CurrentSetNumber
	finalScoreA, finalScoreB := lm.ScoreA, lm.ScoreB
	lm.CompleteSet(outcome.Winner)
	s.metrics.IncSetsCompleted()
	s.persistSnapshot()
	s.bus.Publish(events.EventSetCompleted, SetEvent{
		SetNumber: completedSetNumber,
		ScoreA:    finalScoreA,
		ScoreB:    finalScoreB,
		Winner:    outcome.Winner,
	})
	log.Info("Set completed", "set", completedSetNumber, "scoreA", finalScoreA, "scoreB", finalScoreB, "winner", outcome.Winner)

	if decided, winner := lm.MatchWinner(); decided {
		s.bus.Publish(events.EventMatchCompleted, MatchEvent{
			Winner:   winner,
			SetsWonA: lm.SetsWonA,
			SetsWonB: lm.SetsWonB,
		})
		log.Info("Match winner detected", "winner", winner, "setsWonA", lm.SetsWonA, "setsWonB", lm.SetsWonB)
		return Progress{
			State:       StateMatchCompleted,
			SetWinner:   outcome.Winner,
			SetNumber:   completedSetNumber,
			MatchWinner: winner,
		}
	}

	return Progress{
		State:     StateSetCompleted,
		SetWinner: outcome.Winner,
		SetNumber: completedSetNumber,
	}
}

// Finalize turns the decided active match into a historical record: rating
// changes are computed from the sets-won tally (raw set points for a
// single-set match), applied to both players, and the record is stored with
// the full per-set history. The session is cleared afterwards.
func (s *Manager) Finalize(notes string) (*league.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil, ErrNoActiveMatch
	}
	if decided, _ := s.active.MatchWinner(); !decided {
		return nil, ErrMatchUndecided
	}

	lm := s.active
	scoreA, scoreB := matchResult(lm)
	duration := s.now().Sub(lm.StartDate)

	record := &league.MatchRecord{
		ID:          uuid.New(),
		PlayerAID:   lm.PlayerAID,
		PlayerBID:   lm.PlayerBID,
		PlayerAName: lm.PlayerAName,
		PlayerBName: lm.PlayerBName,
		ScoreA:      scoreA,
		ScoreB:      scoreB,
		PlayedAt:    lm.StartDate,
		Notes:       notes,
		Duration:    duration,
		Mode:        lm.Settings.Mode,
		SetScores:   lm.CompletedSets,
	}

	playerA, playerB, result, ok := s.ratingResult(record, scoreA, scoreB)

	// The record is stored before ratings move. A failed insert leaves the
	// session active and the players table untouched, so finalization can be
	// retried without applying the same Elo deltas twice.
	if err := s.store.InsertRecord(record); err != nil {
		return nil, fmt.Errorf("failed to store match record: %w", err)
	}
	if ok {
		s.commitRatings(playerA, playerB, result)
	}

	s.metrics.IncMatchesCompleted()
	s.metrics.ObserveMatchDuration(duration.Seconds())
	s.clearSessionLocked()
	log.Info("Match finalized", "recordID", record.ID, "scoreA", scoreA, "scoreB", scoreB, "duration", duration)
	return record, nil
}

// Abandon ends the active match without a winner. The record is flagged and
// no rating change is applied: an abandoned match never counts as a result.
func (s *Manager) Abandon(reason string) (*league.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil, ErrNoActiveMatch
	}

	lm := s.active
	scoreA, scoreB := matchResult(lm)
	duration := s.now().Sub(lm.StartDate)

	record := &league.MatchRecord{
		ID:            uuid.New(),
		PlayerAID:     lm.PlayerAID,
		PlayerBID:     lm.PlayerBID,
		PlayerAName:   lm.PlayerAName,
		PlayerBName:   lm.PlayerBName,
		ScoreA:        scoreA,
		ScoreB:        scoreB,
		PlayedAt:      lm.StartDate,
		Duration:      duration,
		Mode:          lm.Settings.Mode,
		SetScores:     lm.CompletedSets,
		Abandoned:     true,
		AbandonReason: reason,
	}

	if err := s.store.InsertRecord(record); err != nil {
		return nil, fmt.Errorf("failed to store abandoned match record: %w", err)
	}

	s.metrics.IncMatchesAbandoned()
	s.bus.Publish(events.EventMatchAbandoned, MatchEvent{
		SetsWonA:      lm.SetsWonA,
		SetsWonB:      lm.SetsWonB,
		Abandoned:     true,
		AbandonReason: reason,
	})
	s.clearSessionLocked()
	log.Info("Match abandoned", "recordID", record.ID, "reason", reason)
	return record, nil
}

// Rematch derives a fresh match between the same players with the same
// settings and a new start time. The current match is left untouched; the
// caller finalizes it separately and installs the returned match via Adopt.
func (s *Manager) Rematch() (*match.LiveMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil, ErrNoActiveMatch
	}
	lm := s.active
	return match.New(lm.PlayerAID, lm.PlayerBID, lm.PlayerAName, lm.PlayerBName, lm.Settings, s.now()), nil
}

// Adopt installs a prepared match as the active session. Fails when a match
// is already live.
func (s *Manager) Adopt(lm *match.LiveMatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return ErrMatchInProgress
	}
	s.active = lm
	s.persistSnapshot()
	return nil
}

// Resume restores a persisted match after a restart and re-runs the winner
// checks so a match that was interrupted at a winning score surfaces its
// result again. Re-checking is idempotent. Returns the restored match, or
// nil when no snapshot exists.
func (s *Manager) Resume() (*match.LiveMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return s.active, nil
	}
	lm, err := s.snapshots.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to restore match snapshot: %w", err)
	}
	if lm == nil {
		return nil, nil
	}

	s.active = lm
	progress := s.advanceLocked()
	log.Info("Resumed interrupted match", "scoreA", lm.ScoreA, "scoreB", lm.ScoreB, "set", lm.CurrentSetNumber, "state", progress.State)
	return lm, nil
}

// RecordManualMatch stores a manually entered result between two stored
// players, applying rating changes from the raw scores. No live match is
// involved.
func (s *Manager) RecordManualMatch(playerAID, playerBID uuid.UUID, scoreA, scoreB int, playedAt time.Time, notes string) (*league.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if playerAID == playerBID {
		return nil, ErrSamePlayer
	}

	playerA, err := s.store.GetPlayer(playerAID)
	if err != nil {
		return nil, fmt.Errorf("player A: %w", err)
	}
	playerB, err := s.store.GetPlayer(playerBID)
	if err != nil {
		return nil, fmt.Errorf("player B: %w", err)
	}

	record := &league.MatchRecord{
		ID:          uuid.New(),
		PlayerAID:   playerA.ID,
		PlayerBID:   playerB.ID,
		PlayerAName: playerA.Name,
		PlayerBName: playerB.Name,
		ScoreA:      scoreA,
		ScoreB:      scoreB,
		PlayedAt:    playedAt,
		Notes:       notes,
		Mode:        scoring.BestOf1,
	}

	pa, pb, result, ok := s.ratingResult(record, scoreA, scoreB)

	if err := s.store.InsertRecord(record); err != nil {
		return nil, fmt.Errorf("failed to store manual match record: %w", err)
	}
	if ok {
		s.commitRatings(pa, pb, result)
	}
	log.Info("Recorded manual match", "recordID", record.ID, "scoreA", scoreA, "scoreB", scoreB)
	return record, nil
}

// ratingResult computes the Elo outcome for a record's players and stamps
// the deltas on the record. A missing player (deleted mid-match) degrades to
// a zero rating change rather than failing the finalization. Nothing is
// written here; commitRatings applies the result once the record is stored.
// Caller holds the lock.
func (s *Manager) ratingResult(record *league.MatchRecord, scoreA, scoreB int) (*league.PlayerInfo, *league.PlayerInfo, elo.Result, bool) {
	playerA, errA := s.store.GetPlayer(record.PlayerAID)
	playerB, errB := s.store.GetPlayer(record.PlayerBID)
	if errA != nil || errB != nil {
		log.Warn("Skipping rating update, player missing", "errA", errA, "errB", errB)
		return nil, nil, elo.Result{}, false
	}

	result := elo.Calculate(playerA.EloRating, playerB.EloRating, scoreA, scoreB)
	record.EloChangeA = result.ChangeA
	record.EloChangeB = result.ChangeB
	return playerA, playerB, result, true
}

// commitRatings writes the new ratings to the players table and publishes the
// ratings event. Caller holds the lock and has already stored the record.
func (s *Manager) commitRatings(playerA, playerB *league.PlayerInfo, result elo.Result) {
	if err := s.store.UpdateRatings(playerA.ID, result.NewRatingA, playerB.ID, result.NewRatingB); err != nil {
		log.Error("Failed to apply rating changes", "error", err)
		return
	}

	s.bus.Publish(events.EventRatingsUpdated, RatingsEvent{
		PlayerAID:  playerA.ID.String(),
		PlayerBID:  playerB.ID.String(),
		NewRatingA: result.NewRatingA,
		NewRatingB: result.NewRatingB,
		ChangeA:    result.ChangeA,
		ChangeB:    result.ChangeB,
	})
}

// matchResult derives the record-level score: the sets-won tally, except for
// a single-set match where the set's raw points are kept.
func matchResult(lm *match.LiveMatch) (int, int) {
	if lm.Settings.Mode == scoring.BestOf1 && len(lm.CompletedSets) == 1 {
		set := lm.CompletedSets[0]
		return set.FinalScoreA, set.FinalScoreB
	}
	return lm.SetsWonA, lm.SetsWonB
}

// persistSnapshot writes the active match to the snapshot store, or clears
// it when no match is live. Failures are logged and counted, never surfaced:
// losing one snapshot write is an accepted risk, corrupting gameplay is not.
func (s *Manager) persistSnapshot() {
	var err error
	if s.active != nil {
		err = s.snapshots.Save(s.active)
	} else {
		err = s.snapshots.Clear()
	}
	if err != nil {
		s.metrics.IncSnapshotFailures()
		log.Error("Failed to persist match snapshot", "error", err)
	}
}

func (s *Manager) clearSessionLocked() {
	s.active = nil
	s.persistSnapshot()
}
