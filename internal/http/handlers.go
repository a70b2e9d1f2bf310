package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/laurentkvb/squash-go/internal/league"
	"github.com/laurentkvb/squash-go/internal/match"
	"github.com/laurentkvb/squash-go/internal/scoring"
	"github.com/laurentkvb/squash-go/internal/session"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// respondJSON is a helper to write a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode response to JSON", "error", err)
	}
}

// statusForError maps session and store errors to HTTP status codes. Unknown
// errors fall through to 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, session.ErrNoActiveMatch), errors.Is(err, league.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrMatchInProgress),
		errors.Is(err, session.ErrMatchDecided),
		errors.Is(err, session.ErrMatchUndecided):
		return http.StatusConflict
	case errors.Is(err, session.ErrSamePlayer):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func parsePlayerID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid player ID %q: %w", raw, err)
	}
	return id, nil
}

// PlayersHandler lists players on GET and creates one on POST.
func (s *Server) PlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			players, err := s.Store.GetAllPlayers()
			if err != nil {
				http.Error(w, "Failed to get players", http.StatusInternalServerError)
				log.Error("Failed to get players from store", "error", err)
				return
			}
			respondJSON(w, http.StatusOK, players)
		case http.MethodPost:
			var req struct {
				Name   string `json:"name"`
				Avatar string `json:"avatar,omitempty"` // base64-encoded image bytes
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if req.Name == "" {
				http.Error(w, "Player name is required", http.StatusBadRequest)
				return
			}
			var avatar []byte
			if req.Avatar != "" {
				decoded, err := base64.StdEncoding.DecodeString(req.Avatar)
				if err != nil {
					http.Error(w, "Invalid base64 avatar", http.StatusBadRequest)
					return
				}
				avatar = decoded
			}
			player, err := s.Store.AddPlayer(req.Name, avatar)
			if err != nil {
				http.Error(w, "Failed to add player", http.StatusInternalServerError)
				log.Error("Failed to add player", "name", req.Name, "error", err)
				return
			}
			log.Info("Player added", "playerID", player.ID, "name", player.Name)
			respondJSON(w, http.StatusCreated, player)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// DeletePlayerHandler removes a player. Their match history is kept; records
// store denormalized names so history survives deletion.
func (s *Server) DeletePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := parsePlayerID(r.URL.Query().Get("playerID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Store.DeletePlayer(playerID); err != nil {
			http.Error(w, "Failed to delete player", statusForError(err))
			log.Error("Failed to delete player", "playerID", playerID, "error", err)
			return
		}
		log.Info("Player deleted", "playerID", playerID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Deleted player %s", playerID)
	}
}

// PlayerStatsHandler returns aggregate stats for a single player.
func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := parsePlayerID(r.URL.Query().Get("playerID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		stats, err := s.Store.GetPlayerStats(playerID)
		if err != nil {
			http.Error(w, "Failed to get player stats", statusForError(err))
			log.Error("Failed to get player stats", "playerID", playerID, "error", err)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

// LeaderboardHandler returns a handler that serves the rating leaderboard.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Store.GetLeaderboard()
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard from store", "error", err)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

// HistoryHandler lists finalized match records, optionally filtered to one
// player via the playerID query parameter.
func (s *Server) HistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var records []*league.MatchRecord
		var err error
		if raw := r.URL.Query().Get("playerID"); raw != "" {
			var playerID uuid.UUID
			playerID, err = parsePlayerID(raw)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			records, err = s.Store.GetRecordsForPlayer(playerID)
		} else {
			records, err = s.Store.GetAllRecords()
		}
		if err != nil {
			http.Error(w, "Failed to get match history", http.StatusInternalServerError)
			log.Error("Failed to get match history", "error", err)
			return
		}
		respondJSON(w, http.StatusOK, records)
	}
}

// DeleteRecordHandler removes a single match record. Player ratings are not
// recomputed; deleting history never rewrites past rating changes.
func (s *Server) DeleteRecordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordID, err := uuid.Parse(r.URL.Query().Get("recordID"))
		if err != nil {
			http.Error(w, "Invalid record ID", http.StatusBadRequest)
			return
		}
		if err := s.Store.DeleteRecord(recordID); err != nil {
			http.Error(w, "Failed to delete record", statusForError(err))
			log.Error("Failed to delete record", "recordID", recordID, "error", err)
			return
		}
		log.Info("Match record deleted", "recordID", recordID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Deleted record %s", recordID)
	}
}

// StartMatchHandler begins a live match between two players. Settings are
// optional; omitted fields fall back to the standard configuration.
func (s *Server) StartMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerAID string            `json:"player_a_id"`
			PlayerBID string            `json:"player_b_id"`
			Settings  *scoring.Settings `json:"settings,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		playerAID, err := parsePlayerID(req.PlayerAID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		playerBID, err := parsePlayerID(req.PlayerBID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		settings := scoring.DefaultSettings()
		if req.Settings != nil {
			settings = *req.Settings
			if !settings.Mode.Valid() {
				http.Error(w, "Invalid match mode", http.StatusBadRequest)
				return
			}
			if settings.TargetScore <= 0 {
				http.Error(w, "Target score must be positive", http.StatusBadRequest)
				return
			}
		}

		lm, err := s.Session.Start(playerAID, playerBID, settings)
		if err != nil {
			http.Error(w, "Failed to start match", statusForError(err))
			log.Error("Failed to start match", "error", err)
			return
		}
		respondJSON(w, http.StatusCreated, lm)
	}
}

// currentMatchResponse wraps the live match with the elapsed play time.
type currentMatchResponse struct {
	Match          *match.LiveMatch `json:"match"`
	ElapsedSeconds float64          `json:"elapsed_seconds"`
}

// CurrentMatchHandler returns the active match and its elapsed time, or 404
// when no match is live.
func (s *Server) CurrentMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lm := s.Session.Current()
		if lm == nil {
			http.Error(w, "No active match", http.StatusNotFound)
			return
		}
		elapsed, err := s.Session.Elapsed()
		if err != nil {
			http.Error(w, "No active match", statusForError(err))
			return
		}
		respondJSON(w, http.StatusOK, currentMatchResponse{
			Match:          lm,
			ElapsedSeconds: elapsed.Seconds(),
		})
	}
}

// pointResponse carries the match state after a scoring mutation.
type pointResponse struct {
	Match    *match.LiveMatch `json:"match"`
	Progress session.Progress `json:"progress"`
}

// RecordPointHandler applies one point for the given side.
func (s *Server) RecordPointHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Side scoring.Side `json:"side"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Side != scoring.SideA && req.Side != scoring.SideB {
			http.Error(w, "Side must be A or B", http.StatusBadRequest)
			return
		}

		progress, err := s.Session.RecordPoint(req.Side)
		if err != nil {
			http.Error(w, "Failed to record point", statusForError(err))
			log.Error("Failed to record point", "side", req.Side, "error", err)
			return
		}
		respondJSON(w, http.StatusOK, pointResponse{Match: s.Session.Current(), Progress: progress})
	}
}

// UndoPointHandler reverts the most recent point of the current set.
func (s *Server) UndoPointHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Session.UndoPoint(); err != nil {
			http.Error(w, "Failed to undo point", statusForError(err))
			log.Error("Failed to undo point", "error", err)
			return
		}
		respondJSON(w, http.StatusOK, s.Session.Current())
	}
}

// FinalizeMatchHandler turns the decided active match into a stored record.
func (s *Server) FinalizeMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Notes string `json:"notes,omitempty"`
		}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
		}

		record, err := s.Session.Finalize(req.Notes)
		if err != nil {
			http.Error(w, "Failed to finalize match", statusForError(err))
			log.Error("Failed to finalize match", "error", err)
			return
		}
		respondJSON(w, http.StatusOK, record)
	}
}

// AbandonMatchHandler ends the active match without a winner.
func (s *Server) AbandonMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Reason string `json:"reason,omitempty"`
		}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
		}

		record, err := s.Session.Abandon(req.Reason)
		if err != nil {
			http.Error(w, "Failed to abandon match", statusForError(err))
			log.Error("Failed to abandon match", "error", err)
			return
		}
		respondJSON(w, http.StatusOK, record)
	}
}

// rematchResponse carries the finalized record of the old match and the fresh
// match that replaced it.
type rematchResponse struct {
	Record *league.MatchRecord `json:"record"`
	Match  *match.LiveMatch    `json:"match"`
}

// RematchHandler finalizes the decided active match and immediately starts a
// fresh one between the same players with the same settings.
func (s *Server) RematchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Notes string `json:"notes,omitempty"`
		}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
		}

		fresh, err := s.Session.Rematch()
		if err != nil {
			http.Error(w, "Failed to prepare rematch", statusForError(err))
			log.Error("Failed to prepare rematch", "error", err)
			return
		}
		record, err := s.Session.Finalize(req.Notes)
		if err != nil {
			http.Error(w, "Failed to finalize match", statusForError(err))
			log.Error("Failed to finalize match for rematch", "error", err)
			return
		}
		if err := s.Session.Adopt(fresh); err != nil {
			http.Error(w, "Failed to start rematch", statusForError(err))
			log.Error("Failed to adopt rematch", "error", err)
			return
		}
		log.Info("Rematch started", "recordID", record.ID)
		respondJSON(w, http.StatusOK, rematchResponse{Record: record, Match: fresh})
	}
}

// ManualMatchHandler records a manually entered result without a live match.
func (s *Server) ManualMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerAID string     `json:"player_a_id"`
			PlayerBID string     `json:"player_b_id"`
			ScoreA    int        `json:"score_a"`
			ScoreB    int        `json:"score_b"`
			PlayedAt  *time.Time `json:"played_at,omitempty"`
			Notes     string     `json:"notes,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		playerAID, err := parsePlayerID(req.PlayerAID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		playerBID, err := parsePlayerID(req.PlayerBID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.ScoreA < 0 || req.ScoreB < 0 {
			http.Error(w, "Scores must be non-negative", http.StatusBadRequest)
			return
		}
		playedAt := time.Now()
		if req.PlayedAt != nil {
			playedAt = *req.PlayedAt
		}

		record, err := s.Session.RecordManualMatch(playerAID, playerBID, req.ScoreA, req.ScoreB, playedAt, req.Notes)
		if err != nil {
			http.Error(w, "Failed to record manual match", statusForError(err))
			log.Error("Failed to record manual match", "error", err)
			return
		}
		respondJSON(w, http.StatusCreated, record)
	}
}
