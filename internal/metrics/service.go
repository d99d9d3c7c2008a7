package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		EntriesAppended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cricket_match_entries_appended_total",
			Help: "The total number of match entries appended, by metric.",
		}, []string{"metric"}),
		MalformedEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cricket_malformed_entries_total",
			Help: "The total number of non-numeric entries substituted with 0 during aggregation.",
		}, []string{"metric"}),
		RankingsComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cricket_rankings_computed_total",
			Help: "The total number of ranking computations, by whether they were persisted.",
		}, []string{"persisted"}),
		RankingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cricket_ranking_duration_seconds",
			Help:    "The duration of a ranking computation.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		MotmSelected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cricket_motm_selected_total",
			Help: "The total number of successful man-of-the-match selections.",
		}),
		StorageErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cricket_storage_errors_total",
			Help: "The total number of failed persistence operations.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cricket_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cricket_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cricket_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.EntriesAppended,
		s.MalformedEntries,
		s.RankingsComputed,
		s.RankingDuration,
		s.MotmSelected,
		s.StorageErrors,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncEntriesAppended(metric string, n int) {
	s.EntriesAppended.WithLabelValues(metric).Add(float64(n))
}

func (s *Service) IncMalformedEntries(metric string) {
	s.MalformedEntries.WithLabelValues(metric).Inc()
}

func (s *Service) IncRankingsComputed(persisted bool) {
	s.RankingsComputed.WithLabelValues(strconv.FormatBool(persisted)).Inc()
}

func (s *Service) ObserveRankingDuration(duration float64) {
	s.RankingDuration.Observe(duration)
}

func (s *Service) IncMotmSelected() {
	s.MotmSelected.Inc()
}

func (s *Service) IncStorageErrors() {
	s.StorageErrors.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
