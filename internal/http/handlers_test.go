package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/cricket-stats/internal/config"
	"github.com/mauv0809/cricket-stats/internal/database"
	"github.com/mauv0809/cricket-stats/internal/metrics"
	"github.com/mauv0809/cricket-stats/internal/notifier"
	"github.com/mauv0809/cricket-stats/internal/player"
	"github.com/mauv0809/cricket-stats/internal/processor"
	"github.com/mauv0809/cricket-stats/internal/pubsub"
	"github.com/mauv0809/cricket-stats/internal/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSlackSigningSecret = "test-signing-secret"

type testServer struct {
	*Server
	notifier *notifier.Mock
	pubsub   *pubsub.MockPubSubClient
}

// setupTestServer initializes a new server with an in-memory database and mock clients.
func setupTestServer(t *testing.T, cfg config.Config) (*testServer, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	counters := metrics.New(db)
	ps := pubsub.NewMock()
	notif := notifier.NewMock()

	engine := stats.New(player.New(db), metricsSvc, stats.Options{
		Strict:    cfg.StrictEntries,
		Counters:  counters,
		Publisher: ps,
	})
	proc := processor.New(engine, counters)
	server := NewServer(engine, counters, metrics.NewMetricsHandler(reg), cfg, notif, proc, ps)

	return &testServer{Server: server, notifier: notif, pubsub: ps}, teardown
}

func do(t *testing.T, s http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

type playerResponse struct {
	Message string          `json:"message"`
	Player  *player.Profile `json:"player"`
}

func createPlayer(t *testing.T, s http.Handler, name string) string {
	t.Helper()
	rr := do(t, s, http.MethodPost, "/api/data", map[string]any{
		"name":         name,
		"role":         "Batsman",
		"born":         "1990-01-01",
		"battingstyle": "Right-hand bat",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := decode[playerResponse](t, rr)
	require.NotEmpty(t, resp.Player.ID)
	return resp.Player.ID
}

func scorecard(date string, runs, wickets []string) map[string]any {
	toDated := func(values []string) []map[string]string {
		out := make([]map[string]string, 0, len(values))
		for _, v := range values {
			out = append(out, map[string]string{"value": v, "DateOfMatch": date})
		}
		return out
	}
	return map[string]any{"scores": map[string]any{"runs": toDated(runs), "wickets": toDated(wickets)}}
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	body := form.Encode()
	req := httptest.NewRequest(http.MethodPost, targetURL, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))
	return req
}

func TestHealthCheckHandler(t *testing.T) {
	server, teardown := setupTestServer(t, config.Config{})
	defer teardown()

	rr := do(t, server, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestPlayerLifecycle(t *testing.T) {
	server, teardown := setupTestServer(t, config.Config{})
	defer teardown()

	id := createPlayer(t, server, "Virat Kohli")

	rr := do(t, server, http.MethodGet, "/api/data/"+id, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	p := decode[player.Profile](t, rr)
	assert.Equal(t, "Virat Kohli", p.Name)
	assert.Equal(t, "0", p.Scores.Career.Runs)

	rr = do(t, server, http.MethodPut, "/api/update/"+id, map[string]string{"birthplace": "Delhi"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(t, server, http.MethodPut, "/api/players/image/"+id, map[string]string{"image": "aW1n"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(t, server, http.MethodGet, "/api/players", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	players := decode[[]player.Profile](t, rr)
	require.Len(t, players, 1)
	assert.Equal(t, "Delhi", players[0].Birthplace)
	assert.Equal(t, "Batsman", players[0].Role, "partial update keeps other fields")
	require.NotNil(t, players[0].Image)
	assert.Equal(t, "aW1n", *players[0].Image)

	rr = do(t, server, http.MethodDelete, "/api/data/"+id, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, server, http.MethodGet, "/api/data/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreatePlayer_Validation(t *testing.T) {
	server, teardown := setupTestServer(t, config.Config{})
	defer teardown()

	rr := do(t, server, http.MethodPost, "/api/data", map[string]string{"role": "Bowler"})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "name is required")

	rr = do(t, server, http.MethodPost, "/api/data", map[string]string{"name": "X", "born": "yesterday"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/data", strings.NewReader("{"))
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestScorecardHandler(t *testing.T) {
	server, teardown := setupTestServer(t, config.Config{})
	defer teardown()
	id := createPlayer(t, server, "Rohit")

	t.Run("appends and aggregates", func(t *testing.T) {
		rr := do(t, server, http.MethodPut, "/api/scorecard/"+id, scorecard("2024-06-09", []string{"30", "abc"}, []string{"2"}))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		resp := decode[playerResponse](t, rr)
		assert.Equal(t, "30", resp.Player.Scores.Career.Runs)
		assert.Equal(t, "2", resp.Player.Scores.Career.Wickets)
		assert.Equal(t, []string{"30"}, resp.Player.Scores.LastFour)
		assert.Len(t, resp.Player.Scores.Runs, 2, "malformed entry stays in history")

		sent := server.pubsub.Sent()
		require.NotEmpty(t, sent)
		assert.Equal(t, pubsub.EventRecomputeRankings, sent[len(sent)-1].Topic)
	})

	t.Run("mixed dates are rejected", func(t *testing.T) {
		body := map[string]any{"scores": map[string]any{
			"runs": []map[string]string{
				{"value": "1", "DateOfMatch": "2024-06-09"},
				{"value": "2", "DateOfMatch": "2024-06-10"},
			},
		}}
		rr := do(t, server, http.MethodPut, "/api/scorecard/"+id, body)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown player", func(t *testing.T) {
		rr := do(t, server, http.MethodPut, "/api/scorecard/ghost", scorecard("2024-06-09", []string{"1"}, nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("dry run does not write", func(t *testing.T) {
		rr := do(t, server, http.MethodPut, "/api/scorecard/"+id+"?dry_run=true", scorecard("2024-06-11", []string{"99"}, nil))
		require.Equal(t, http.StatusOK, rr.Code)

		rr = do(t, server, http.MethodGet, "/api/data/"+id, nil)
		assert.Equal(t, "30", decode[player.Profile](t, rr).Scores.Career.Runs)
	})
}

func TestMatchEntriesHandler_FlatBody(t *testing.T) {
	server, teardown := setupTestServer(t, config.Config{})
	defer teardown()
	id := createPlayer(t, server, "Gill")

	rr := do(t, server, http.MethodPut, "/api/data/"+id, map[string]any{
		"runs":        []string{"10", "5"},
		"innings":     []string{"1"},
		"DateOfMatch": "2024-06-09T10:00:00Z",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := decode[playerResponse](t, rr)
	assert.Equal(t, "15", resp.Player.Scores.Career.Runs)
	assert.Equal(t, "1", resp.Player.Scores.Career.Innings)

	rr = do(t, server, http.MethodPut, "/api/data/"+id, map[string]any{"runs": []string{"1"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "values need a date")
}

func TestScorecardHandler_StrictMode(t *testing.T) {
	server, teardown := setupTestServer(t, config.Config{StrictEntries: true})
	defer teardown()
	id := createPlayer(t, server, "Pant")

	rr := do(t, server, http.MethodPut, "/api/scorecard/"+id, scorecard("2024-06-09", []string{"abc"}, nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "abc")
}

func TestRankingsHandlers(t *testing.T) {
	server, teardown := setupTestServer(t, config.Config{})
	defer teardown()

	low := createPlayer(t, server, "Low")
	high := createPlayer(t, server, "High")
	do(t, server, http.MethodPut, "/api/scorecard/"+low, scorecard("2024-06-09", []string{"10"}, nil))
	do(t, server, http.MethodPut, "/api/scorecard/"+high, scorecard("2024-06-09", []string{"20"}, nil))

	rr := do(t, server, http.MethodGet, "/api/rankings", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	ranked := decode[[]player.RankEntry](t, rr)
	require.Len(t, ranked, 2)
	assert.Equal(t, high, ranked[0].PlayerID)
	assert.Equal(t, 1, ranked[0].Rank)

	rr = do(t, server, http.MethodGet, "/api/data/"+high, nil)
	assert.Zero(t, decode[player.Profile](t, rr).Scores.Career.Rank, "read-only ranking does not persist")

	rr = do(t, server, http.MethodPost, "/api/rankings", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, server, http.MethodGet, "/api/data/"+high, nil)
	assert.Equal(t, 1, decode[player.Profile](t, rr).Scores.Career.Rank)
	rr = do(t, server, http.MethodGet, "/api/data/"+low, nil)
	assert.Equal(t, 2, decode[player.Profile](t, rr).Scores.Career.Rank)

	rr = do(t, server, http.MethodGet, "/api/counters", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	counters := decode[map[string]int](t, rr)
	assert.Equal(t, 1, counters[metrics.KeyRankingsPersisted])
	assert.Equal(t, 2, counters[metrics.KeyScorecardsApplied])
}

var slackEnabled = config.Config{Slack: config.SlackConfig{Token: "xoxb-test", ChannelID: "C1"}}

func TestManOfTheMatchHandlers(t *testing.T) {
	server, teardown := setupTestServer(t, slackEnabled)
	defer teardown()

	batter := createPlayer(t, server, "Batter")
	bowler := createPlayer(t, server, "Bowler")
	do(t, server, http.MethodPut, "/api/scorecard/"+batter, scorecard("2024-06-09", []string{"45"}, nil))
	do(t, server, http.MethodPut, "/api/scorecard/"+bowler, scorecard("2024-06-09", []string{"10"}, []string{"4"}))

	rr := do(t, server, http.MethodGet, "/api/mom/2024-06-09", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := decode[map[string]any](t, rr)
	assert.Equal(t, "Bowler", resp["name"])
	assert.Equal(t, float64(50), resp["match_score"])

	rr = do(t, server, http.MethodGet, "/api/mom/2024-06-10", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, server, http.MethodGet, "/api/mom/not-a-date", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, server, http.MethodPost, "/api/mom/2024-06-09/announce?dry_run=true", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Len(t, server.notifier.SendManOfTheMatchCalls, 1)
	call := server.notifier.SendManOfTheMatchCalls[0]
	assert.Equal(t, bowler, call.MOTM.Player.ID)
	assert.True(t, call.DryRun)
}

func TestAnnounceManOfTheMatch_SlackFailure(t *testing.T) {
	server, teardown := setupTestServer(t, slackEnabled)
	defer teardown()
	server.notifier.SendManOfTheMatchFunc = func(ctx context.Context, motm *stats.ManOfTheMatch, date time.Time, dryRun bool) (string, error) {
		return "", fmt.Errorf("not_authed")
	}
	id := createPlayer(t, server, "Batter")
	do(t, server, http.MethodPut, "/api/scorecard/"+id, scorecard("2024-06-09", []string{"45"}, nil))

	rr := do(t, server, http.MethodPost, "/api/mom/2024-06-09/announce", nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestAnnounceRankingsHandler(t *testing.T) {
	server, teardown := setupTestServer(t, slackEnabled)
	defer teardown()
	createPlayer(t, server, "A")
	createPlayer(t, server, "B")

	rr := do(t, server, http.MethodPost, "/api/rankings/announce", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Len(t, server.notifier.SendRankingsCalls, 1)
	assert.Len(t, server.notifier.SendRankingsCalls[0], 2)

	server.notifier.SendRankingsFunc = func(ctx context.Context, entries []player.RankEntry, dryRun bool) error {
		return fmt.Errorf("channel_not_found")
	}
	rr = do(t, server, http.MethodPost, "/api/rankings/announce", nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestAnnounceRoutes_RequireSlackChannel(t *testing.T) {
	server, teardown := setupTestServer(t, config.Config{})
	defer teardown()
	id := createPlayer(t, server, "Batter")
	do(t, server, http.MethodPut, "/api/scorecard/"+id, scorecard("2024-06-09", []string{"45"}, nil))

	rr := do(t, server, http.MethodPost, "/api/mom/2024-06-09/announce", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = do(t, server, http.MethodPost, "/api/rankings/announce", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, server.notifier.SendManOfTheMatchCalls)
	assert.Empty(t, server.notifier.SendRankingsCalls)

	rr = do(t, server, http.MethodGet, "/api/mom/2024-06-09", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestDeleteAllHandler(t *testing.T) {
	server, teardown := setupTestServer(t, config.Config{})
	defer teardown()
	createPlayer(t, server, "A")
	createPlayer(t, server, "B")

	rr := do(t, server, http.MethodDelete, "/api/data/all", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(2), decode[map[string]any](t, rr)["count"])

	rr = do(t, server, http.MethodGet, "/api/players", nil)
	assert.Equal(t, "[]\n", rr.Body.String())
}

func TestPubSubPushHandlers(t *testing.T) {
	server, teardown := setupTestServer(t, config.Config{})
	defer teardown()
	id := createPlayer(t, server, "Pusher")

	push := func(path string, msg any) *httptest.ResponseRecorder {
		data, err := pubsub.Encode(msg)
		require.NoError(t, err)
		body := fmt.Sprintf(`{"subscription":"s","message":{"messageId":"1","data":%q}}`, base64.StdEncoding.EncodeToString(data))
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)
		return rr
	}

	rr := push("/pubsub/scorecard", pubsub.ScorecardMessage{
		PlayerID:    id,
		Runs:        []string{"70"},
		DateOfMatch: time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, string(processor.OutcomeApplied), rr.Body.String())

	rr = push("/pubsub/scorecard", pubsub.ScorecardMessage{PlayerID: "ghost", Runs: []string{"1"}, DateOfMatch: time.Now()})
	require.Equal(t, http.StatusOK, rr.Code, "dropped messages are acked")
	assert.Equal(t, string(processor.OutcomeDropped), rr.Body.String())

	rr = push("/pubsub/recompute-rankings", pubsub.RecomputeMessage{Reason: "test"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, server, http.MethodGet, "/api/data/"+id, nil)
	p := decode[player.Profile](t, rr)
	assert.Equal(t, "70", p.Scores.Career.Runs)
	assert.Equal(t, 1, p.Scores.Career.Rank)

	req := httptest.NewRequest(http.MethodPost, "/pubsub/scorecard", strings.NewReader("garbage"))
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSlackCommands(t *testing.T) {
	server, teardown := setupTestServer(t, config.Config{Slack: config.SlackConfig{SigningSecret: testSlackSigningSecret}})
	defer teardown()
	createPlayer(t, server, "Jasprit Bumrah")

	t.Run("rankings", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/rankings", url.Values{}, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, server.notifier.FormatRankingsResponseCalls, 1)
	})

	t.Run("player found by partial name", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "bumrah")
		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, server.notifier.FormatPlayerCardResponseCalls, 1)
		assert.Equal(t, "Jasprit Bumrah", server.notifier.FormatPlayerCardResponseCalls[0].Name)
	})

	t.Run("player not found", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Sachin")
		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []string{"Sachin"}, server.notifier.FormatPlayerNotFoundResponseCalls)
	})

	t.Run("missing player name", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/player-stats", url.Values{}, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Please provide a player name")
	})

	t.Run("bad signature", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/rankings", url.Values{}, "wrong-secret")
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	server, teardown := setupTestServer(t, config.Config{})
	defer teardown()
	id := createPlayer(t, server, "M")
	do(t, server, http.MethodPut, "/api/scorecard/"+id, scorecard("2024-06-09", []string{"1", "2"}, nil))

	rr := do(t, server, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `cricket_match_entries_appended_total{metric="runs"} 2`)
}
