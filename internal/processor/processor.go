package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-stats/internal/metrics"
	"github.com/mauv0809/cricket-stats/internal/player"
	"github.com/mauv0809/cricket-stats/internal/pubsub"
	"github.com/mauv0809/cricket-stats/internal/stats"
)

// New creates a new Processor. counters may be nil.
func New(engine Engine, counters metrics.MetricsStore) *Processor {
	return &Processor{
		engine:   engine,
		counters: counters,
	}
}

// HandleScorecard appends the values of one scorecard message.
// Messages for unknown players or with malformed values are dropped since a
// redelivery would fail the same way. Storage errors are returned so the push is retried.
func (p *Processor) HandleScorecard(ctx context.Context, msg pubsub.ScorecardMessage, dryRun bool) (Outcome, error) {
	log.Info("Processing scorecard", "player", msg.PlayerID, "date", msg.DateOfMatch, "dry_run", dryRun)
	if msg.PlayerID == "" || msg.DateOfMatch.IsZero() {
		log.Warn("Dropping scorecard without player or date", "player", msg.PlayerID)
		return p.drop(), nil
	}

	card := stats.Scorecard{
		Runs:    msg.Runs,
		Balls:   msg.Balls,
		Wickets: msg.Wickets,
		Innings: msg.Innings,
	}
	if dryRun {
		log.Info("Dry run, scorecard not applied", "player", msg.PlayerID, "valid", stats.Validate(card) == nil)
		return OutcomeDryRun, nil
	}

	_, err := p.engine.AppendMatchEntries(ctx, msg.PlayerID, card, msg.DateOfMatch)
	switch {
	case err == nil:
		return OutcomeApplied, nil
	case errors.Is(err, player.ErrNotFound), errors.Is(err, player.ErrMalformedEntry):
		log.Warn("Dropping scorecard", "player", msg.PlayerID, "error", err)
		return p.drop(), nil
	default:
		return "", fmt.Errorf("failed to apply scorecard for %s: %w", msg.PlayerID, err)
	}
}

// HandleRecompute runs a persisted ranking.
func (p *Processor) HandleRecompute(ctx context.Context, msg pubsub.RecomputeMessage, dryRun bool) (Outcome, error) {
	log.Info("Processing ranking recompute", "reason", msg.Reason, "player", msg.PlayerID, "dry_run", dryRun)
	ranked, err := p.engine.ComputeRankings(ctx, !dryRun)
	if err != nil {
		return "", fmt.Errorf("failed to recompute rankings: %w", err)
	}
	if dryRun {
		log.Info("Dry run, rankings not persisted", "players", len(ranked))
		return OutcomeDryRun, nil
	}
	log.Info("Rankings persisted", "players", len(ranked))
	return OutcomeApplied, nil
}

func (p *Processor) drop() Outcome {
	if p.counters != nil {
		p.counters.Increment(metrics.KeyMessagesDropped)
	}
	return OutcomeDropped
}
