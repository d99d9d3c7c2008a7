package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncEntriesAppended(metric string, n int)
	IncMalformedEntries(metric string)
	IncRankingsComputed(persisted bool)
	ObserveRankingDuration(duration float64)
	IncMotmSelected()
	IncStorageErrors()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// MetricsStore keeps lifetime operation counters in the database so they survive restarts.
type MetricsStore interface {
	Increment(key string)
	Get(key string) (int, error)
	GetAll() (map[string]int, error)
}
