package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/laurentkvb/squash-go/internal/database"
	"github.com/laurentkvb/squash-go/internal/elo"
	"github.com/laurentkvb/squash-go/internal/league"
	"github.com/laurentkvb/squash-go/internal/match"
	"github.com/laurentkvb/squash-go/internal/scoring"
)

const numMatches = 200

func main() {
	log.Info("Starting database seeder...")
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "squash.db"
	}
	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "./migrations"
	}

	db, teardown, err := database.InitDB(dbName, migrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	store := league.New(db)

	names := []string{"Seeder Player A", "Seeder Player B", "Seeder Player C", "Seeder Player D"}
	players := make([]league.PlayerInfo, 0, len(names))
	for _, name := range names {
		player, err := store.AddPlayer(name, nil)
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", name, err)
		}
		players = append(players, player)
	}
	log.Info("Ensured dummy players exist.", "count", len(players))

	log.Info("Preparing to insert dummy matches...", "total", numMatches)
	startTime := time.Now()

	for i := 0; i < numMatches; i++ {
		a := players[rand.Intn(len(players))]
		b := players[rand.Intn(len(players))]
		for b.ID == a.ID {
			b = players[rand.Intn(len(players))]
		}

		playedAt := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
		winnerScore, loserScore := 11, rand.Intn(10)
		scoreA, scoreB := winnerScore, loserScore
		winner := scoring.SideA
		if rand.Intn(2) == 1 {
			scoreA, scoreB = loserScore, winnerScore
			winner = scoring.SideB
		}

		ratingA, _ := store.GetPlayer(a.ID)
		ratingB, _ := store.GetPlayer(b.ID)
		result := elo.Calculate(ratingA.EloRating, ratingB.EloRating, scoreA, scoreB)
		if err := store.UpdateRatings(a.ID, result.NewRatingA, b.ID, result.NewRatingB); err != nil {
			log.Fatalf("Failed to update ratings: %s", err)
		}

		record := &league.MatchRecord{
			ID:          uuid.New(),
			PlayerAID:   a.ID,
			PlayerBID:   b.ID,
			PlayerAName: a.Name,
			PlayerBName: b.Name,
			ScoreA:      scoreA,
			ScoreB:      scoreB,
			PlayedAt:    playedAt,
			EloChangeA:  result.ChangeA,
			EloChangeB:  result.ChangeB,
			Duration:    time.Duration(20+rand.Intn(40)) * time.Minute,
			Mode:        scoring.BestOf1,
			SetScores: []match.SetResult{
				{SetNumber: 1, FinalScoreA: scoreA, FinalScoreB: scoreB, Winner: winner},
			},
		}
		if err := store.InsertRecord(record); err != nil {
			log.Fatalf("Failed to insert dummy match: %s", err)
		}
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy matches.", "duration", duration)
}
