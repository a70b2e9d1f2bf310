package league

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/laurentkvb/squash-go/internal/elo"
	"github.com/laurentkvb/squash-go/internal/match"
	"github.com/laurentkvb/squash-go/internal/scoring"
	"github.com/vmihailenco/msgpack/v5"
)

// New creates a new LeagueStore.
func New(db *sql.DB) LeagueStore {
	return &store{
		db: db,
	}
}

func (s *store) AddPlayer(name string, avatar []byte) (PlayerInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player := PlayerInfo{
		ID:        uuid.New(),
		Name:      name,
		Avatar:    avatar,
		EloRating: elo.DefaultRating,
		CreatedAt: time.Now(),
	}

	_, err := s.db.Exec(
		"INSERT INTO players (id, name, avatar, elo_rating, created_at) VALUES (?, ?, ?, ?, ?)",
		player.ID.String(), player.Name, player.Avatar, player.EloRating, player.CreatedAt.Unix(),
	)
	if err != nil {
		log.Error("Failed to add player", "error", err, "name", name)
		return PlayerInfo{}, fmt.Errorf("failed to add player: %w", err)
	}
	log.Info("Added new player to the store", "playerID", player.ID, "name", name)
	return player, nil
}

func (s *store) GetPlayer(playerID uuid.UUID) (*PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT id, name, avatar, elo_rating, created_at FROM players WHERE id = ?", playerID.String())
	player, err := scanPlayer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		log.Error("Failed to query player", "error", err, "playerID", playerID)
		return nil, fmt.Errorf("database error: %w", err)
	}
	return player, nil
}

func (s *store) GetAllPlayers() ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, avatar, elo_rating, created_at FROM players ORDER BY name")
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, err
	}
	defer rows.Close()

	var players []PlayerInfo
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, *player)
	}
	return players, nil
}

// DeletePlayer removes the player row only. Historical records keep their
// denormalized names, and past rating changes are never rolled back.
func (s *store) DeletePlayer(playerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM players WHERE id = ?", playerID.String())
	if err != nil {
		log.Error("Failed to delete player", "error", err, "playerID", playerID)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	log.Info("Deleted player", "playerID", playerID)
	return nil
}

func (s *store) UpdateRatings(playerAID uuid.UUID, newRatingA int, playerBID uuid.UUID, newRatingB int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("UPDATE players SET elo_rating = ? WHERE id = ?", newRatingA, playerAID.String()); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update rating for player A: %w", err)
	}
	if _, err := tx.Exec("UPDATE players SET elo_rating = ? WHERE id = ?", newRatingB, playerBID.String()); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update rating for player B: %w", err)
	}
	return tx.Commit()
}

func (s *store) InsertRecord(record *MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	setScoresBlob, err := msgpack.Marshal(record.SetScores)
	if err != nil {
		return fmt.Errorf("failed to marshal set scores: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO match_records (id, player_a_id, player_b_id, player_a_name, player_b_name, score_a, score_b, played_at, notes, elo_change_a, elo_change_b, duration_seconds, match_mode, set_scores, abandoned, abandon_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID.String(), record.PlayerAID.String(), record.PlayerBID.String(),
		record.PlayerAName, record.PlayerBName,
		record.ScoreA, record.ScoreB, record.PlayedAt.Unix(),
		nullableString(record.Notes), record.EloChangeA, record.EloChangeB,
		int64(record.Duration.Seconds()), string(record.Mode), setScoresBlob,
		record.Abandoned, nullableString(record.AbandonReason),
	)
	if err != nil {
		log.Error("Failed to insert match record", "error", err, "recordID", record.ID)
		return fmt.Errorf("failed to insert match record: %w", err)
	}
	log.Info("Inserted match record", "recordID", record.ID, "scoreA", record.ScoreA, "scoreB", record.ScoreB)
	return nil
}

func (s *store) GetRecord(recordID uuid.UUID) (*MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(selectRecordColumns+" FROM match_records WHERE id = ?", recordID.String())
	record, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		log.Error("Failed to query match record", "error", err, "recordID", recordID)
		return nil, fmt.Errorf("database error: %w", err)
	}
	return record, nil
}

func (s *store) GetAllRecords() ([]*MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(selectRecordColumns + " FROM match_records ORDER BY played_at DESC")
	if err != nil {
		log.Error("Failed to query all match records", "error", err)
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (s *store) GetRecordsForPlayer(playerID uuid.UUID) ([]*MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		selectRecordColumns+" FROM match_records WHERE player_a_id = ? OR player_b_id = ? ORDER BY played_at DESC",
		playerID.String(), playerID.String(),
	)
	if err != nil {
		log.Error("Failed to query match records for player", "error", err, "playerID", playerID)
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// DeleteRecord removes a historical match. Ratings earned from it are not
// recomputed; deletion is bookkeeping, not a rating rollback.
func (s *store) DeleteRecord(recordID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM match_records WHERE id = ?", recordID.String())
	if err != nil {
		log.Error("Failed to delete match record", "error", err, "recordID", recordID)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	log.Info("Deleted match record", "recordID", recordID)
	return nil
}

// GetPlayerStats aggregates a single player's results. Abandoned matches are
// excluded: they never produced a decided outcome.
func (s *store) GetPlayerStats(playerID uuid.UUID) (*PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats PlayerStats
	row := s.db.QueryRow("SELECT id, name, elo_rating FROM players WHERE id = ?", playerID.String())
	var id string
	if err := row.Scan(&id, &stats.PlayerName, &stats.EloRating); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	stats.PlayerID = playerID

	err := s.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN (player_a_id = ? AND score_a > score_b) OR (player_b_id = ? AND score_b > score_a) THEN 1 ELSE 0 END), 0)
		FROM match_records
		WHERE (player_a_id = ? OR player_b_id = ?) AND abandoned = 0`,
		playerID.String(), playerID.String(), playerID.String(), playerID.String(),
	).Scan(&stats.MatchesPlayed, &stats.Wins)
	if err != nil {
		log.Error("Failed to aggregate player stats", "error", err, "playerID", playerID)
		return nil, fmt.Errorf("database error: %w", err)
	}

	stats.Losses = stats.MatchesPlayed - stats.Wins
	if stats.MatchesPlayed > 0 {
		stats.WinPercentage = float64(stats.Wins) / float64(stats.MatchesPlayed) * 100
	}
	return &stats, nil
}

func (s *store) GetLeaderboard() ([]PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT
			p.id,
			p.name,
			p.elo_rating,
			COALESCE(r.played, 0),
			COALESCE(r.wins, 0)
		FROM players p
		LEFT JOIN (
			SELECT player_id, COUNT(*) AS played, SUM(won) AS wins FROM (
				SELECT player_a_id AS player_id, CASE WHEN score_a > score_b THEN 1 ELSE 0 END AS won FROM match_records WHERE abandoned = 0
				UNION ALL
				SELECT player_b_id AS player_id, CASE WHEN score_b > score_a THEN 1 ELSE 0 END AS won FROM match_records WHERE abandoned = 0
			) GROUP BY player_id
		) r ON r.player_id = p.id
		ORDER BY p.elo_rating DESC, r.wins DESC, p.name ASC`)
	if err != nil {
		log.Error("Failed to query leaderboard", "error", err)
		return nil, err
	}
	defer rows.Close()

	var leaderboard []PlayerStats
	for rows.Next() {
		var stats PlayerStats
		var id string
		if err := rows.Scan(&id, &stats.PlayerName, &stats.EloRating, &stats.MatchesPlayed, &stats.Wins); err != nil {
			log.Error("Failed to scan leaderboard row", "error", err)
			continue
		}
		playerID, err := uuid.Parse(id)
		if err != nil {
			log.Error("Invalid player id in leaderboard row", "error", err, "id", id)
			continue
		}
		stats.PlayerID = playerID
		stats.Losses = stats.MatchesPlayed - stats.Wins
		if stats.MatchesPlayed > 0 {
			stats.WinPercentage = float64(stats.Wins) / float64(stats.MatchesPlayed) * 100
		}
		leaderboard = append(leaderboard, stats)
	}
	return leaderboard, nil
}

const selectRecordColumns = "SELECT id, player_a_id, player_b_id, player_a_name, player_b_name, score_a, score_b, played_at, notes, elo_change_a, elo_change_b, duration_seconds, match_mode, set_scores, abandoned, abandon_reason"

func scanPlayer(scanner interface{ Scan(...any) error }) (*PlayerInfo, error) {
	var player PlayerInfo
	var id string
	var createdAt int64
	if err := scanner.Scan(&id, &player.Name, &player.Avatar, &player.EloRating, &createdAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid player id %q: %w", id, err)
	}
	player.ID = parsed
	player.CreatedAt = time.Unix(createdAt, 0)
	return &player, nil
}

func scanRecord(scanner interface{ Scan(...any) error }) (*MatchRecord, error) {
	var record MatchRecord
	var id, playerAID, playerBID, mode string
	var playedAt, durationSeconds int64
	var notes, abandonReason sql.NullString
	var setScoresBlob []byte

	err := scanner.Scan(
		&id, &playerAID, &playerBID, &record.PlayerAName, &record.PlayerBName,
		&record.ScoreA, &record.ScoreB, &playedAt, &notes,
		&record.EloChangeA, &record.EloChangeB, &durationSeconds,
		&mode, &setScoresBlob, &record.Abandoned, &abandonReason,
	)
	if err != nil {
		return nil, err
	}

	if record.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid record id %q: %w", id, err)
	}
	if record.PlayerAID, err = uuid.Parse(playerAID); err != nil {
		return nil, fmt.Errorf("invalid player id %q: %w", playerAID, err)
	}
	if record.PlayerBID, err = uuid.Parse(playerBID); err != nil {
		return nil, fmt.Errorf("invalid player id %q: %w", playerBID, err)
	}
	record.PlayedAt = time.Unix(playedAt, 0)
	record.Duration = time.Duration(durationSeconds) * time.Second
	record.Notes = notes.String
	record.AbandonReason = abandonReason.String
	record.Mode = scoring.MatchMode(mode)

	if len(setScoresBlob) > 0 {
		if err := msgpack.Unmarshal(setScoresBlob, &record.SetScores); err != nil {
			log.Error("Failed to unmarshal set_scores", "error", err, "recordID", record.ID)
			record.SetScores = []match.SetResult{}
		}
	}
	return &record, nil
}

func collectRecords(rows *sql.Rows) ([]*MatchRecord, error) {
	var records []*MatchRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			log.Error("Failed to scan match record row", "error", err)
			continue
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
