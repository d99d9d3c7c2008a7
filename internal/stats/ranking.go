package stats

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-stats/internal/metrics"
	"github.com/mauv0809/cricket-stats/internal/player"
)

// Rank orders players by average runs per match, best first.
// Ties keep the order of players. Ranks are 1-based positions.
func Rank(players []*player.Profile) []player.RankEntry {
	entries := make([]player.RankEntry, len(players))
	for i, p := range players {
		totalRuns, _ := ParseValue(p.Scores.Career.Runs)
		matches := len(p.Scores.Runs)
		avg := 0.0
		if matches > 0 {
			avg = float64(totalRuns) / float64(matches)
		}
		entries[i] = player.RankEntry{
			PlayerID:     p.ID,
			Name:         p.Name,
			TotalRuns:    totalRuns,
			TotalMatches: matches,
			AverageRuns:  avg,
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AverageRuns > entries[j].AverageRuns
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// ComputeRankings ranks the whole population. With persist set every player's
// stored rank is updated; otherwise a clean cached ranking is returned when available.
func (e *Engine) ComputeRankings(ctx context.Context, persist bool) ([]player.RankEntry, error) {
	if !persist {
		if cached, ok := e.cache.Get(ctx); ok {
			log.Debug("Serving ranking from cache", "players", len(cached))
			return cached, nil
		}
	}

	start := time.Now()
	// Read before loading players: Set refuses the ranking if any mutation
	// invalidated the cache after this point.
	gen, cacheable := e.cache.Generation(ctx)

	players, err := e.store.FindAllPlayers(ctx)
	if err != nil {
		e.metrics.IncStorageErrors()
		return nil, err
	}
	entries := Rank(players)

	if persist {
		if err := e.persistRanks(ctx, entries); err != nil {
			return nil, err
		}
		e.count(metrics.KeyRankingsPersisted)
	}

	if cacheable {
		e.cache.Set(ctx, gen, entries)
	}
	e.metrics.IncRankingsComputed(persist)
	e.metrics.ObserveRankingDuration(time.Since(start).Seconds())
	log.Info("Computed rankings", "players", len(entries), "persisted", persist, "duration", time.Since(start))
	return entries, nil
}

// persistRanks writes each rank onto its player. Players whose stored rank already
// matches are skipped, so repeated runs over unchanged data write nothing.
func (e *Engine) persistRanks(ctx context.Context, entries []player.RankEntry) error {
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.persistRank(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) persistRank(ctx context.Context, entry player.RankEntry) error {
	unlock := e.locks.Lock(entry.PlayerID)
	defer unlock()

	p, err := e.store.FindPlayer(ctx, entry.PlayerID)
	if errors.Is(err, player.ErrNotFound) {
		log.Debug("Player removed while ranking, skipping", "player", entry.PlayerID)
		return nil
	}
	if err != nil {
		e.metrics.IncStorageErrors()
		return err
	}
	if p.Scores.Career.Rank == entry.Rank {
		return nil
	}
	p.Scores.Career.Rank = entry.Rank
	return e.persist(ctx, p)
}
