package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	matchMode   string
	targetScore int
	winByTwo    bool
	tieBreak    bool
	notes       string
	reason      string
	playedAt    string
)

func init() {
	startMatchCmd.Flags().StringVar(&matchMode, "mode", "BEST_OF_1", "Match mode (BEST_OF_1, BEST_OF_3, BEST_OF_5)")
	startMatchCmd.Flags().IntVar(&targetScore, "target", 11, "Points needed to win a set")
	startMatchCmd.Flags().BoolVar(&winByTwo, "win-by-two", true, "Require a two point lead to win a set")
	startMatchCmd.Flags().BoolVar(&tieBreak, "tie-break", false, "Play sets to 15 instead of the target score")
	finalizeCmd.Flags().StringVar(&notes, "notes", "", "Optional notes stored with the match record")
	abandonCmd.Flags().StringVar(&reason, "reason", "", "Why the match was abandoned")
	manualMatchCmd.Flags().StringVar(&notes, "notes", "", "Optional notes stored with the match record")
	manualMatchCmd.Flags().StringVar(&playedAt, "played-at", "", "When the match was played (RFC 3339)")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(addPlayerCmd)
	rootCmd.AddCommand(deletePlayerCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(startMatchCmd)
	rootCmd.AddCommand(currentMatchCmd)
	rootCmd.AddCommand(pointCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(finalizeCmd)
	rootCmd.AddCommand(abandonCmd)
	rootCmd.AddCommand(rematchCmd)
	rootCmd.AddCommand(manualMatchCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players in the league",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var addPlayerCmd = &cobra.Command{
	Use:   "add-player <name>",
	Short: "Add a new player to the league",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/players", map[string]any{"name": args[0]})
	},
}

var deletePlayerCmd = &cobra.Command{
	Use:   "delete-player <playerID>",
	Short: "Delete a player (their match history is kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/players/delete?playerID="+args[0], nil)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <playerID>",
	Short: "Show a player's aggregate stats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players/stats?playerID=" + args[0])
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the rating leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard")
	},
}

var historyCmd = &cobra.Command{
	Use:   "history [playerID]",
	Short: "List finalized match records, optionally for one player",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/history"
		if len(args) == 1 {
			endpoint += "?playerID=" + args[0]
		}
		return performGetRequest(endpoint)
	},
}

var startMatchCmd = &cobra.Command{
	Use:   "start <playerAID> <playerBID>",
	Short: "Start a live match between two players",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/match/start", map[string]any{
			"player_a_id": args[0],
			"player_b_id": args[1],
			"settings": map[string]any{
				"mode":         matchMode,
				"target_score": targetScore,
				"win_by_two":   winByTwo,
				"tie_break":    tieBreak,
			},
		})
	},
}

var currentMatchCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the active match and elapsed time",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/match/current")
	},
}

var pointCmd = &cobra.Command{
	Use:   "point <side>",
	Short: "Record a point for side A or B",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/match/point", map[string]any{"side": args[0]})
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the most recent point of the current set",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/match/undo", nil)
	},
}

var finalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Finalize the decided match and apply rating changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/match/finalize", map[string]any{"notes": notes})
	},
}

var abandonCmd = &cobra.Command{
	Use:   "abandon",
	Short: "Abandon the active match without a winner",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/match/abandon", map[string]any{"reason": reason})
	},
}

var rematchCmd = &cobra.Command{
	Use:   "rematch",
	Short: "Finalize the decided match and start a fresh one",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/match/rematch", nil)
	},
}

var manualMatchCmd = &cobra.Command{
	Use:   "manual <playerAID> <playerBID> <scoreA> <scoreB>",
	Short: "Record a manually entered match result",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		scoreA, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid score A: %w", err)
		}
		scoreB, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid score B: %w", err)
		}
		payload := map[string]any{
			"player_a_id": args[0],
			"player_b_id": args[1],
			"score_a":     scoreA,
			"score_b":     scoreB,
			"notes":       notes,
		}
		if playedAt != "" {
			payload["played_at"] = playedAt
		}
		return performPostRequest("/match/manual", payload)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, payload any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}
	resp, err := http.Post(url, "application/json", &body)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
