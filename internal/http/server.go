package http

import (
	"net/http"

	"github.com/mauv0809/cricket-stats/internal/config"
	"github.com/mauv0809/cricket-stats/internal/http/handlers"
	"github.com/mauv0809/cricket-stats/internal/metrics"
	"github.com/mauv0809/cricket-stats/internal/notifier"
	"github.com/mauv0809/cricket-stats/internal/processor"
	"github.com/mauv0809/cricket-stats/internal/pubsub"
	"github.com/mauv0809/cricket-stats/internal/stats"
	"github.com/rs/cors"
)

func NewServer(engine *stats.Engine, counters metrics.MetricsStore, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Engine:         engine,
		Counters:       counters,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	server.handler = c.Handler(requestIDMiddleware(server.Router))
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	api := func(h http.Handler) http.Handler {
		return Chain(h, timeoutMiddleware(s.Cfg.RequestTimeout), paramsMiddleware)
	}
	slackCmd := func(h http.Handler) http.Handler {
		return Chain(h, slackVerifyMiddleware(s.Cfg.Slack.SigningSecret), timeoutMiddleware(s.Cfg.RequestTimeout), paramsMiddleware)
	}

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/players", api(handlers.ListPlayersHandler(s.Engine)))
	s.Router.Handle("POST /api/data", api(handlers.CreatePlayerHandler(s.Engine)))
	s.Router.Handle("GET /api/data/{id}", api(handlers.GetPlayerHandler(s.Engine)))
	s.Router.Handle("PUT /api/data/{id}", api(handlers.MatchEntriesHandler(s.Engine)))
	s.Router.Handle("DELETE /api/data/all", api(handlers.DeleteAllPlayersHandler(s.Engine)))
	s.Router.Handle("DELETE /api/data/{id}", api(handlers.DeletePlayerHandler(s.Engine)))
	s.Router.Handle("PUT /api/scorecard/{id}", api(handlers.ScorecardHandler(s.Engine)))
	s.Router.Handle("PUT /api/update/{id}", api(handlers.UpdatePlayerHandler(s.Engine)))
	s.Router.Handle("PUT /api/players/image/{id}", api(handlers.UpdateImageHandler(s.Engine)))
	s.Router.Handle("GET /api/mom/{date}", api(handlers.ManOfTheMatchHandler(s.Engine)))
	s.Router.Handle("GET /api/rankings", api(handlers.RankingsHandler(s.Engine, false)))
	s.Router.Handle("POST /api/rankings", api(handlers.RankingsHandler(s.Engine, true)))
	s.Router.Handle("GET /api/counters", api(handlers.CountersHandler(s.Counters)))

	// Announcements post to the configured channel, so they only exist when one is set.
	if s.Cfg.Slack.Enabled() {
		s.Router.Handle("POST /api/mom/{date}/announce", api(handlers.AnnounceManOfTheMatchHandler(s.Engine, s.Notifier)))
		s.Router.Handle("POST /api/rankings/announce", api(handlers.AnnounceRankingsHandler(s.Engine, s.Notifier)))
	}

	s.Router.Handle("POST /pubsub/scorecard", Chain(handlers.ScorecardPushHandler(s.Processor, s.pubsub), paramsMiddleware))
	s.Router.Handle("POST /pubsub/recompute-rankings", Chain(handlers.RecomputePushHandler(s.Processor, s.pubsub), paramsMiddleware))

	s.Router.Handle("POST /slack/command/rankings", slackCmd(handlers.RankingsCommandHandler(s.Engine, s.Notifier)))
	s.Router.Handle("POST /slack/command/player-stats", slackCmd(handlers.PlayerStatsCommandHandler(s.Engine, s.Notifier)))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
