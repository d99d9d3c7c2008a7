package cache

import (
	"context"

	"github.com/mauv0809/cricket-stats/internal/player"
)

// RankingCache holds the last computed ranking until a mutation makes it stale.
//
// Writers read Generation before loading players and pass it to Set. Set stores
// the ranking only if no Invalidate happened in between, so a ranking computed
// from data older than the latest mutation is never stored.
type RankingCache interface {
	// Get returns the cached ranking and whether it is still clean.
	Get(ctx context.Context) ([]player.RankEntry, bool)
	// Generation returns the current generation. ok is false when it cannot be
	// read, in which case the caller must not Set.
	Generation(ctx context.Context) (gen uint64, ok bool)
	// Set stores entries if the generation is still gen and reports whether it did.
	Set(ctx context.Context, gen uint64, entries []player.RankEntry) bool
	// Invalidate advances the generation and drops the cached ranking.
	Invalidate(ctx context.Context)
}
