package processor

import (
	"context"
	"time"

	"github.com/mauv0809/cricket-stats/internal/player"
	"github.com/mauv0809/cricket-stats/internal/stats"
)

// Engine defines the stats operations required by the processor.
type Engine interface {
	AppendMatchEntries(ctx context.Context, id string, card stats.Scorecard, date time.Time) (*player.Profile, error)
	ComputeRankings(ctx context.Context, persist bool) ([]player.RankEntry, error)
}
