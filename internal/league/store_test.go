package league_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/laurentkvb/squash-go/internal/database"
	"github.com/laurentkvb/squash-go/internal/league"
	"github.com/laurentkvb/squash-go/internal/match"
	"github.com/laurentkvb/squash-go/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary in-memory SQLite database for testing.
func setupTestStore(t *testing.T) (league.LeagueStore, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "../../migrations")
	require.NoError(t, err)

	store := league.New(db)
	return store, dbTeardown
}

func TestAddAndGetPlayers(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	alice, err := store.AddPlayer("Alice", nil)
	require.NoError(t, err)
	_, err = store.AddPlayer("Bob", []byte{0x01, 0x02})
	require.NoError(t, err)

	assert.Equal(t, 1200, alice.EloRating, "new players start at the default rating")

	fetched, err := store.GetPlayer(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", fetched.Name)
	assert.Equal(t, 1200, fetched.EloRating)

	all, err := store.GetAllPlayers()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alice", all[0].Name, "players are sorted by name")
	assert.Equal(t, []byte{0x01, 0x02}, all[1].Avatar)
}

func TestGetPlayer_NotFound(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	_, err := store.GetPlayer(uuid.New())
	assert.ErrorIs(t, err, league.ErrNotFound)
}

func TestDeletePlayer_KeepsRecords(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	alice, err := store.AddPlayer("Alice", nil)
	require.NoError(t, err)
	bob, err := store.AddPlayer("Bob", nil)
	require.NoError(t, err)

	record := newTestRecord(alice.ID, bob.ID, 2, 0)
	require.NoError(t, store.InsertRecord(record))

	require.NoError(t, store.DeletePlayer(alice.ID))
	_, err = store.GetPlayer(alice.ID)
	assert.ErrorIs(t, err, league.ErrNotFound)

	// History survives with the denormalized name intact.
	records, err := store.GetAllRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Alice", records[0].PlayerAName)

	// Bob's rating is untouched by the deletion.
	fetched, err := store.GetPlayer(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1200, fetched.EloRating)
}

func TestUpdateRatings(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	alice, err := store.AddPlayer("Alice", nil)
	require.NoError(t, err)
	bob, err := store.AddPlayer("Bob", nil)
	require.NoError(t, err)

	require.NoError(t, store.UpdateRatings(alice.ID, 1216, bob.ID, 1184))

	fetchedA, err := store.GetPlayer(alice.ID)
	require.NoError(t, err)
	fetchedB, err := store.GetPlayer(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1216, fetchedA.EloRating)
	assert.Equal(t, 1184, fetchedB.EloRating)
}

func TestInsertAndGetRecord_RoundTripsSetScores(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	alice, _ := store.AddPlayer("Alice", nil)
	bob, _ := store.AddPlayer("Bob", nil)

	record := newTestRecord(alice.ID, bob.ID, 2, 1)
	record.Notes = "club night"
	record.SetScores = []match.SetResult{
		{
			SetNumber:   1,
			FinalScoreA: 11,
			FinalScoreB: 9,
			Winner:      scoring.SideA,
			PointHistory: []match.PointSnapshot{
				{ScoreA: 0, ScoreB: 0, Timestamp: time.Unix(100, 0).UTC()},
				{ScoreA: 11, ScoreB: 9, Timestamp: time.Unix(200, 0).UTC()},
			},
		},
		{SetNumber: 2, FinalScoreA: 5, FinalScoreB: 11, Winner: scoring.SideB},
		{SetNumber: 3, FinalScoreA: 11, FinalScoreB: 7, Winner: scoring.SideA},
	}
	require.NoError(t, store.InsertRecord(record))

	fetched, err := store.GetRecord(record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ScoreA, fetched.ScoreA)
	assert.Equal(t, record.ScoreB, fetched.ScoreB)
	assert.Equal(t, "club night", fetched.Notes)
	assert.Equal(t, record.SetScores, fetched.SetScores, "set scores blob must round-trip exactly")

	winner, decided := fetched.Winner()
	assert.True(t, decided)
	assert.Equal(t, scoring.SideA, winner)
}

func TestDeleteRecord_DoesNotAdjustRatings(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	alice, _ := store.AddPlayer("Alice", nil)
	bob, _ := store.AddPlayer("Bob", nil)
	require.NoError(t, store.UpdateRatings(alice.ID, 1216, bob.ID, 1184))

	record := newTestRecord(alice.ID, bob.ID, 2, 0)
	record.EloChangeA = 16
	record.EloChangeB = -16
	require.NoError(t, store.InsertRecord(record))

	require.NoError(t, store.DeleteRecord(record.ID))

	_, err := store.GetRecord(record.ID)
	assert.ErrorIs(t, err, league.ErrNotFound)

	fetchedA, err := store.GetPlayer(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1216, fetchedA.EloRating, "deleting history never rolls ratings back")
}

func TestPlayerStatsAndLeaderboard(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	alice, _ := store.AddPlayer("Alice", nil)
	bob, _ := store.AddPlayer("Bob", nil)
	carol, _ := store.AddPlayer("Carol", nil)

	require.NoError(t, store.InsertRecord(newTestRecord(alice.ID, bob.ID, 2, 0)))
	require.NoError(t, store.InsertRecord(newTestRecord(bob.ID, alice.ID, 2, 1)))
	require.NoError(t, store.InsertRecord(newTestRecord(alice.ID, carol.ID, 2, 1)))

	abandoned := newTestRecord(alice.ID, bob.ID, 0, 0)
	abandoned.Abandoned = true
	abandoned.AbandonReason = "rain stopped play"
	require.NoError(t, store.InsertRecord(abandoned))

	stats, err := store.GetPlayerStats(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.MatchesPlayed, "abandoned matches do not count")
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.InDelta(t, 66.66, stats.WinPercentage, 0.1)

	require.NoError(t, store.UpdateRatings(alice.ID, 1250, bob.ID, 1150))
	leaderboard, err := store.GetLeaderboard()
	require.NoError(t, err)
	require.Len(t, leaderboard, 3)
	assert.Equal(t, "Alice", leaderboard[0].PlayerName, "leaderboard is rating-ordered")
	assert.Equal(t, 1250, leaderboard[0].EloRating)
}

func newTestRecord(playerAID, playerBID uuid.UUID, scoreA, scoreB int) *league.MatchRecord {
	return &league.MatchRecord{
		ID:          uuid.New(),
		PlayerAID:   playerAID,
		PlayerBID:   playerBID,
		PlayerAName: "Alice",
		PlayerBName: "Bob",
		ScoreA:      scoreA,
		ScoreB:      scoreB,
		PlayedAt:    time.Now(),
		Duration:    30 * time.Minute,
		Mode:        scoring.BestOf3,
	}
}
