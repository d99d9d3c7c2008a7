package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-stats/internal/metrics"
	"github.com/mauv0809/cricket-stats/internal/player"
)

// SelectManOfTheMatch picks the best performer on date, scoring runs plus ten per wicket.
// Dates must match exactly. Ties go to the player registered first.
func (e *Engine) SelectManOfTheMatch(ctx context.Context, date time.Time) (*ManOfTheMatch, error) {
	players, err := e.store.FindAllPlayers(ctx)
	if err != nil {
		e.metrics.IncStorageErrors()
		return nil, err
	}

	winner, ok := SelectBest(players, date)
	if !ok {
		log.Info("No man of the match", "date", date)
		return nil, fmt.Errorf("%w: no man of the match on %s", player.ErrNotFound, date.Format(time.RFC3339))
	}
	e.metrics.IncMotmSelected()
	e.count(metrics.KeyMotmSelected)
	log.Info("Selected man of the match", "date", date, "player", winner.Player.ID, "score", winner.Score)
	return winner, nil
}

// SelectBest returns the highest scoring player on date. ok is false when nobody
// has entries on date or the best score is 0.
func SelectBest(players []*player.Profile, date time.Time) (best *ManOfTheMatch, ok bool) {
	for _, p := range players {
		runs := sumOnDate(p.Scores.Runs, date)
		wickets := sumOnDate(p.Scores.Wickets, date)
		score := runs + motmWicketWeight*wickets
		if best == nil || score > best.Score {
			best = &ManOfTheMatch{Player: p, Runs: runs, Wickets: wickets, Score: score}
		}
	}
	if best == nil || best.Score == 0 {
		return nil, false
	}
	return best, true
}

func sumOnDate(entries []player.MatchEntry, date time.Time) int {
	total := 0
	for _, e := range entries {
		if !e.DateOfMatch.Equal(date) {
			continue
		}
		if n, ok := ParseValue(e.Value); ok {
			total += n
		}
	}
	return total
}
