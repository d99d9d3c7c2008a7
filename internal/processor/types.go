package processor

import (
	"github.com/mauv0809/cricket-stats/internal/metrics"
)

// Processor applies asynchronous events delivered through Pub/Sub.
type Processor struct {
	engine   Engine
	counters metrics.MetricsStore
}

// Outcome reports what handling a message did.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeDryRun  Outcome = "dry_run"
	// OutcomeDropped means the message can never succeed and must not be redelivered.
	OutcomeDropped Outcome = "dropped"
)
