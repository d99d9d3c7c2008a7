package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-stats/internal/notifier"
	"github.com/mauv0809/cricket-stats/internal/player"
	"github.com/mauv0809/cricket-stats/internal/stats"
)

// datedValue is one value as posted by the scoring app.
type datedValue struct {
	Value       string `json:"value"`
	DateOfMatch string `json:"DateOfMatch"`
}

type scorecardRequest struct {
	Scores struct {
		Runs    []datedValue `json:"runs"`
		Balls   []datedValue `json:"balls"`
		Wickets []datedValue `json:"wickets"`
		Innings []datedValue `json:"innings"`
	} `json:"scores"`
}

// matchEntriesRequest is the flat form: plain values sharing one date.
type matchEntriesRequest struct {
	Runs        []string `json:"runs"`
	Balls       []string `json:"balls"`
	Wickets     []string `json:"wickets"`
	Innings     []string `json:"innings"`
	DateOfMatch string   `json:"DateOfMatch"`
}

type createPlayerRequest struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	Born         string `json:"born"`
	Birthplace   string `json:"birthplace"`
	BattingStyle string `json:"battingstyle"`
	BowlingStyle string `json:"bowlingstyle"`
	Debut        string `json:"debut"`
	Image        string `json:"image"`
	Scores       struct {
		Runs     []datedValue `json:"runs"`
		Balls    []datedValue `json:"balls"`
		Wickets  []datedValue `json:"wickets"`
		Innings  []datedValue `json:"innings"`
		LastFour []string     `json:"lastfour"`
	} `json:"scores"`
}

type updatePlayerRequest struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	Born         string `json:"born"`
	Birthplace   string `json:"birthplace"`
	BattingStyle string `json:"battingstyle"`
	BowlingStyle string `json:"bowlingstyle"`
	Debut        string `json:"debut"`
	Image        string `json:"image"`
}

type imageRequest struct {
	Image string `json:"image"`
}

type motmResponse struct {
	*player.Profile
	MatchScore int `json:"match_score"`
}

func ListPlayersHandler(engine *stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := engine.ListPlayers(r.Context())
		if err != nil {
			writeError(w, r, err, "Failed to get players")
			return
		}
		if players == nil {
			players = []*player.Profile{}
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func GetPlayerHandler(engine *stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := engine.GetCareerSnapshot(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err, "Failed to get player")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func CreatePlayerHandler(engine *stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPlayerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "Invalid JSON")
			return
		}

		p := &player.Profile{
			Name:         req.Name,
			Role:         req.Role,
			Birthplace:   req.Birthplace,
			BattingStyle: req.BattingStyle,
			BowlingStyle: req.BowlingStyle,
		}
		var err error
		if p.Born, err = optionalDate(req.Born); err != nil {
			badRequest(w, "Invalid born: "+err.Error())
			return
		}
		if p.Debut, err = optionalDate(req.Debut); err != nil {
			badRequest(w, "Invalid debut: "+err.Error())
			return
		}
		if req.Image != "" {
			image := req.Image
			p.Image = &image
		}
		for metric, values := range map[player.Metric][]datedValue{
			player.MetricRuns:    req.Scores.Runs,
			player.MetricBalls:   req.Scores.Balls,
			player.MetricWickets: req.Scores.Wickets,
			player.MetricInnings: req.Scores.Innings,
		} {
			entries, err := toEntries(values)
			if err != nil {
				badRequest(w, "Invalid "+string(metric)+": "+err.Error())
				return
			}
			p.Scores.Append(metric, entries...)
		}
		p.Scores.LastFour = req.Scores.LastFour

		if IsDryRunFromContext(r) {
			log.Info("Dry run, player not created", "name", p.Name)
			writeJSON(w, http.StatusOK, messageResponse{Message: "Dry run, player not created", Player: p})
			return
		}
		if err := engine.CreatePlayer(r.Context(), p); err != nil {
			writeError(w, r, err, "Failed to create player")
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Player added successfully", Player: p})
	}
}

// ScorecardHandler appends one match's entries. All entries must share one date.
func ScorecardHandler(engine *stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scorecardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "Invalid JSON")
			return
		}

		var card stats.Scorecard
		var date time.Time
		for _, group := range []struct {
			values []datedValue
			dst    *[]string
		}{
			{req.Scores.Runs, &card.Runs},
			{req.Scores.Balls, &card.Balls},
			{req.Scores.Wickets, &card.Wickets},
			{req.Scores.Innings, &card.Innings},
		} {
			for _, v := range group.values {
				d, err := ParseDate(v.DateOfMatch)
				if err != nil {
					badRequest(w, err.Error())
					return
				}
				if date.IsZero() {
					date = d
				} else if !date.Equal(d) {
					badRequest(w, "All scores in one scorecard must share one DateOfMatch")
					return
				}
				*group.dst = append(*group.dst, v.Value)
			}
		}

		appendEntries(w, r, engine, card, date, "Scores updated successfully")
	}
}

// MatchEntriesHandler appends plain value lists that share the request's DateOfMatch.
func MatchEntriesHandler(engine *stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req matchEntriesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "Invalid JSON")
			return
		}
		card := stats.Scorecard{Runs: req.Runs, Balls: req.Balls, Wickets: req.Wickets, Innings: req.Innings}
		var date time.Time
		if !card.Empty() {
			d, err := ParseDate(req.DateOfMatch)
			if err != nil {
				badRequest(w, err.Error())
				return
			}
			date = d
		}
		appendEntries(w, r, engine, card, date, "Player data updated successfully")
	}
}

func appendEntries(w http.ResponseWriter, r *http.Request, engine *stats.Engine, card stats.Scorecard, date time.Time, okMsg string) {
	id := r.PathValue("id")
	if IsDryRunFromContext(r) {
		if err := stats.Validate(card); err != nil {
			log.Info("Dry run, scorecard has malformed values", "player", id, "error", err)
		}
		p, err := engine.GetCareerSnapshot(r.Context(), id)
		if err != nil {
			writeError(w, r, err, "Failed to get player")
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Dry run, scores not updated", Player: p})
		return
	}

	p, err := engine.AppendMatchEntries(r.Context(), id, card, date)
	if err != nil {
		writeError(w, r, err, "Failed to update scores")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: okMsg, Player: p})
}

func UpdatePlayerHandler(engine *stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updatePlayerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "Invalid JSON")
			return
		}
		upd := player.ProfileUpdate{
			Name:         req.Name,
			Role:         req.Role,
			Birthplace:   req.Birthplace,
			BattingStyle: req.BattingStyle,
			BowlingStyle: req.BowlingStyle,
			Image:        req.Image,
		}
		for _, field := range []struct {
			raw string
			dst **time.Time
		}{
			{req.Born, &upd.Born},
			{req.Debut, &upd.Debut},
		} {
			if field.raw == "" {
				continue
			}
			d, err := ParseDate(field.raw)
			if err != nil {
				badRequest(w, err.Error())
				return
			}
			*field.dst = &d
		}

		if _, err := engine.UpdateProfile(r.Context(), r.PathValue("id"), upd); err != nil {
			writeError(w, r, err, "Failed to update player")
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Player details updated successfully"})
	}
}

func UpdateImageHandler(engine *stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req imageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "Invalid JSON")
			return
		}
		p, err := engine.UpdateImage(r.Context(), r.PathValue("id"), req.Image)
		if err != nil {
			writeError(w, r, err, "Failed to update player image")
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Player image updated successfully", Player: p})
	}
}

func DeletePlayerHandler(engine *stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := engine.DeletePlayer(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, r, err, "Failed to delete player")
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Player deleted successfully"})
	}
}

func DeleteAllPlayersHandler(engine *stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if IsDryRunFromContext(r) {
			writeJSON(w, http.StatusOK, messageResponse{Message: "Dry run, no players deleted"})
			return
		}
		n, err := engine.DeleteAll(r.Context())
		if err != nil {
			writeError(w, r, err, "Failed to delete players")
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "All players deleted successfully", Count: &n})
	}
}

// RankingsHandler serves the ranking. With persist set the ranks are written back
// to every player unless the request is a dry run.
func RankingsHandler(engine *stats.Engine, persist bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := engine.ComputeRankings(r.Context(), persist && !IsDryRunFromContext(r))
		if err != nil {
			writeError(w, r, err, "Failed to compute rankings")
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func ManOfTheMatchHandler(engine *stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := ParseDate(r.PathValue("date"))
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		motm, err := engine.SelectManOfTheMatch(r.Context(), date)
		if err != nil {
			writeError(w, r, err, "No matches found on this date")
			return
		}
		writeJSON(w, http.StatusOK, motmResponse{Profile: motm.Player, MatchScore: motm.Score})
	}
}

// AnnounceManOfTheMatchHandler selects the man of the match and posts it to the channel.
func AnnounceManOfTheMatchHandler(engine *stats.Engine, n notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := ParseDate(r.PathValue("date"))
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		motm, err := engine.SelectManOfTheMatch(r.Context(), date)
		if err != nil {
			writeError(w, r, err, "No matches found on this date")
			return
		}
		ts, err := n.SendManOfTheMatch(r.Context(), motm, date, IsDryRunFromContext(r))
		if err != nil {
			log.Error("Failed to announce man of the match", "error", err, "player", motm.Player.ID)
			writeJSON(w, http.StatusBadGateway, messageResponse{Message: "Failed to post announcement"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":     "Man of the match announced",
			"player":      motm.Player.Name,
			"match_score": motm.Score,
			"ts":          ts,
		})
	}
}

func optionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return ParseDate(s)
}

func toEntries(values []datedValue) ([]player.MatchEntry, error) {
	entries := make([]player.MatchEntry, 0, len(values))
	for _, v := range values {
		d, err := ParseDate(v.DateOfMatch)
		if err != nil {
			return nil, err
		}
		entries = append(entries, player.MatchEntry{Value: v.Value, DateOfMatch: d})
	}
	return entries, nil
}

// AnnounceRankingsHandler posts the current ranking board to the channel.
func AnnounceRankingsHandler(engine *stats.Engine, n notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := engine.ComputeRankings(r.Context(), false)
		if err != nil {
			writeError(w, r, err, "Failed to compute rankings")
			return
		}
		if err := n.SendRankings(r.Context(), entries, IsDryRunFromContext(r)); err != nil {
			log.Error("Failed to announce rankings", "error", err)
			writeJSON(w, http.StatusBadGateway, messageResponse{Message: "Failed to post rankings"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Rankings announced", "players": len(entries)})
	}
}
