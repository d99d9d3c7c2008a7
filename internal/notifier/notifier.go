package notifier

import (
	"context"
	"time"

	"github.com/mauv0809/cricket-stats/internal/player"
	"github.com/mauv0809/cricket-stats/internal/stats"
)

// Notifier defines a high-level interface for sending notifications about cricket events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// Announcements posted to the team channel
	SendManOfTheMatch(ctx context.Context, motm *stats.ManOfTheMatch, date time.Time, dryRun bool) (string, error)
	SendRankings(ctx context.Context, entries []player.RankEntry, dryRun bool) error

	// For formatting responses for slash commands
	FormatRankingsResponse(entries []player.RankEntry) (any, error)
	FormatPlayerCardResponse(p *player.Profile) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
