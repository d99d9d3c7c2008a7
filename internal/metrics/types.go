package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	EntriesAppended    *prometheus.CounterVec
	MalformedEntries   *prometheus.CounterVec
	RankingsComputed   *prometheus.CounterVec
	RankingDuration    prometheus.Histogram
	MotmSelected       prometheus.Counter
	StorageErrors      prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// Keys used with MetricsStore.
const (
	KeyScorecardsApplied = "scorecards_applied"
	KeyRankingsPersisted = "rankings_persisted"
	KeyMotmSelected      = "motm_selected"
	KeyPlayersCreated    = "players_created"
	KeyMessagesDropped   = "pubsub_messages_dropped"
)
