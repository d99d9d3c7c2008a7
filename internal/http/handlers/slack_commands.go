package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-stats/internal/notifier"
	"github.com/mauv0809/cricket-stats/internal/stats"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg is a helper to write a formatted Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// RankingsCommandHandler answers /rankings with the read-only ranking board.
func RankingsCommandHandler(engine *stats.Engine, n notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := engine.ComputeRankings(r.Context(), false)
		if err != nil {
			http.Error(w, "Failed to compute rankings", http.StatusInternalServerError)
			log.Error("Failed to compute rankings", "error", err)
			return
		}

		msg, err := n.FormatRankingsResponse(entries)
		if err != nil {
			http.Error(w, "Failed to format rankings", http.StatusInternalServerError)
			log.Error("Failed to format rankings", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// PlayerStatsCommandHandler answers /player-stats <name> with that player's career card.
func PlayerStatsCommandHandler(engine *stats.Engine, n notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			http.Error(w, "Failed to parse slash command", http.StatusBadRequest)
			log.Error("Failed to parse slash command", "error", err)
			return
		}
		query := strings.TrimSpace(cmd.Text)
		if query == "" {
			respondWithSlackMsg(w, slack.Msg{
				ResponseType: slack.ResponseTypeEphemeral,
				Text:         "Please provide a player name, e.g. `/player-stats Kohli`.",
			})
			return
		}

		players, err := engine.ListPlayers(r.Context())
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}

		var msg any
		if p := findByName(players, query); p != nil {
			msg, err = n.FormatPlayerCardResponse(p)
		} else {
			log.Info("Player not found for slash command", "query", query)
			msg, err = n.FormatPlayerNotFoundResponse(query)
		}
		if err != nil {
			http.Error(w, "Failed to format response", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}
