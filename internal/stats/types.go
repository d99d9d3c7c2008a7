package stats

import (
	"github.com/mauv0809/cricket-stats/internal/cache"
	"github.com/mauv0809/cricket-stats/internal/metrics"
	"github.com/mauv0809/cricket-stats/internal/player"
	"github.com/mauv0809/cricket-stats/internal/pubsub"
)

// WindowSize is the capacity of the "last four" window.
const WindowSize = 4

// motmWicketWeight is how many runs one wicket is worth in a man-of-the-match score.
const motmWicketWeight = 10

// Engine applies match entries to players and derives careers, rankings and MOTM from them.
type Engine struct {
	store     player.Store
	metrics   metrics.Metrics
	counters  metrics.MetricsStore
	cache     cache.RankingCache
	publisher pubsub.PubSubClient
	locks     *keyLock
	strict    bool
}

// Options configures optional collaborators of the Engine.
type Options struct {
	// Strict rejects non-numeric values on append instead of counting them as 0.
	// An unknown player still reports ErrNotFound first.
	Strict bool
	// Cache defaults to an in-process cache.
	Cache cache.RankingCache
	// Counters, if set, records lifetime operation counts.
	Counters metrics.MetricsStore
	// Publisher, if set, receives a recompute-rankings event after every append.
	Publisher pubsub.PubSubClient
}

// Scorecard holds one match's values for one player, per metric.
type Scorecard struct {
	Runs    []string `json:"runs"`
	Balls   []string `json:"balls"`
	Wickets []string `json:"wickets"`
	Innings []string `json:"innings"`
}

// Values returns the supplied values for m.
func (s Scorecard) Values(m player.Metric) []string {
	switch m {
	case player.MetricRuns:
		return s.Runs
	case player.MetricBalls:
		return s.Balls
	case player.MetricWickets:
		return s.Wickets
	case player.MetricInnings:
		return s.Innings
	}
	return nil
}

// Empty reports whether the scorecard carries no values at all.
func (s Scorecard) Empty() bool {
	return len(s.Runs) == 0 && len(s.Balls) == 0 && len(s.Wickets) == 0 && len(s.Innings) == 0
}

// ManOfTheMatch is the winner of a man-of-the-match selection.
type ManOfTheMatch struct {
	Player  *player.Profile `json:"player"`
	Runs    int             `json:"runs"`
	Wickets int             `json:"wickets"`
	Score   int             `json:"score"`
}

var metricsInOrder = []player.Metric{
	player.MetricRuns,
	player.MetricBalls,
	player.MetricWickets,
	player.MetricInnings,
}
