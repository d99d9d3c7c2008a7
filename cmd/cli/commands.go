package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mauv0809/cricket-stats/internal/player"
	"github.com/spf13/cobra"
)

var (
	persistRanks bool
	cardRuns     []string
	cardBalls    []string
	cardWickets  []string
	cardInnings  []string
	cardDate     string
)

func init() {
	rankingsCmd.Flags().BoolVar(&persistRanks, "persist", false, "Write the computed ranks back to every player")

	scorecardCmd.Flags().StringSliceVar(&cardRuns, "runs", nil, "Runs values for the match")
	scorecardCmd.Flags().StringSliceVar(&cardBalls, "balls", nil, "Balls values for the match")
	scorecardCmd.Flags().StringSliceVar(&cardWickets, "wickets", nil, "Wickets values for the match")
	scorecardCmd.Flags().StringSliceVar(&cardInnings, "innings", nil, "Innings values for the match")
	scorecardCmd.Flags().StringVar(&cardDate, "date", time.Now().UTC().Format(time.DateOnly), "Match date (YYYY-MM-DD)")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(rankingsCmd)
	rootCmd.AddCommand(momCmd)
	rootCmd.AddCommand(scorecardCmd)
	rootCmd.AddCommand(countersCmd)
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
	Short: "List every player with career totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		var players []player.Profile
		if err := getJSON("/api/players", &players); err != nil {
			return err
		}
		printPlayers(os.Stdout, players)
		return nil
	},
}

var playerCmd = &cobra.Command{
	Use:   "player [id]",
	Short: "Show one player's career snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p player.Profile
		if err := getJSON("/api/data/"+args[0], &p); err != nil {
			return err
		}
		printPlayerCard(os.Stdout, &p)
		return nil
	},
}

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Rank players by average runs per match",
	RunE: func(cmd *cobra.Command, args []string) error {
		var entries []player.RankEntry
		var err error
		if persistRanks {
			err = sendJSON(http.MethodPost, "/api/rankings", nil, &entries)
		} else {
			err = getJSON("/api/rankings", &entries)
		}
		if err != nil {
			return err
		}
		printRankings(os.Stdout, entries)
		return nil
	},
}

var momCmd = &cobra.Command{
	Use:   "mom [date]",
	Short: "Select the man of the match for a match date (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp momResult
		if err := getJSON("/api/mom/"+args[0], &resp); err != nil {
			return err
		}
		printManOfTheMatch(os.Stdout, resp)
		return nil
	},
}

var scorecardCmd = &cobra.Command{
	Use:   "scorecard [id]",
	Short: "Append one match's values to a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{
			"runs":        cardRuns,
			"balls":       cardBalls,
			"wickets":     cardWickets,
			"innings":     cardInnings,
			"DateOfMatch": cardDate,
		}
		var resp struct {
			Message string          `json:"message"`
			Player  *player.Profile `json:"player"`
		}
		if err := sendJSON(http.MethodPut, "/api/data/"+args[0], body, &resp); err != nil {
			return err
		}
		fmt.Println(resp.Message)
		if resp.Player != nil {
			printPlayerCard(os.Stdout, resp.Player)
		}
		return nil
	},
}

var countersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Show lifetime operation counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		var counters map[string]int
		if err := getJSON("/api/counters", &counters); err != nil {
			return err
		}
		printCounters(os.Stdout, counters)
		return nil
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

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

func getJSON(endpoint string, out any) error {
	return sendJSON(http.MethodGet, endpoint, nil, out)
}

// sendJSON performs the request and decodes a successful JSON response into out.
func sendJSON(method, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, host+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &msg) == nil && msg.Message != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, msg.Message)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
