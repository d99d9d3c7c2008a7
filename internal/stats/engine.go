package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/cricket-stats/internal/cache"
	"github.com/mauv0809/cricket-stats/internal/metrics"
	"github.com/mauv0809/cricket-stats/internal/player"
	"github.com/mauv0809/cricket-stats/internal/pubsub"
)

// New creates an Engine on top of store.
func New(store player.Store, metrics metrics.Metrics, opts Options) *Engine {
	c := opts.Cache
	if c == nil {
		c = cache.NewMemory()
	}
	return &Engine{
		store:     store,
		metrics:   metrics,
		counters:  opts.Counters,
		cache:     c,
		publisher: opts.Publisher,
		locks:     newKeyLock(),
		strict:    opts.Strict,
	}
}

// AppendMatchEntries appends one entry per supplied value to the player's histories,
// all stamped with date and a fresh match id, then recomputes the affected career
// totals and, when runs were supplied, the "last four" window.
func (e *Engine) AppendMatchEntries(ctx context.Context, id string, card Scorecard, date time.Time) (*player.Profile, error) {
	p, appended, err := e.appendLocked(ctx, id, card, date)
	if err != nil || !appended {
		return p, err
	}
	// Published after the player's lock is released so a slow topic never
	// holds up other appends to the same player.
	e.publishRecompute(ctx, id)
	return p, nil
}

// appendLocked does the read-modify-write of AppendMatchEntries under the player's lock.
// appended is false when the scorecard was empty and nothing was written.
func (e *Engine) appendLocked(ctx context.Context, id string, card Scorecard, date time.Time) (*player.Profile, bool, error) {
	unlock := e.locks.Lock(id)
	defer unlock()

	p, err := e.findPlayer(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if e.strict {
		if err := Validate(card); err != nil {
			log.Warn("Rejected scorecard", "player", id, "error", err)
			return nil, false, err
		}
	}
	if card.Empty() {
		log.Debug("Empty scorecard, nothing to append", "player", id)
		return p, false, nil
	}

	matchID := uuid.NewString()
	for _, m := range metricsInOrder {
		values := card.Values(m)
		if len(values) == 0 {
			continue
		}
		entries := make([]player.MatchEntry, len(values))
		for i, v := range values {
			entries[i] = player.MatchEntry{Value: v, DateOfMatch: date, MatchID: matchID}
		}
		p.Scores.Append(m, entries...)
		e.aggregate(p, m)
	}
	if len(card.Runs) > 0 {
		p.Scores.LastFour = UpdateWindow(p.Scores.LastFour, sumValues(card.Runs))
	}

	if err := e.persist(ctx, p); err != nil {
		return nil, false, err
	}

	for _, m := range metricsInOrder {
		if n := len(card.Values(m)); n > 0 {
			e.metrics.IncEntriesAppended(string(m), n)
		}
	}
	e.count(metrics.KeyScorecardsApplied)
	e.invalidate(ctx)

	log.Info("Appended match entries", "player", id, "matchID", matchID, "date", date,
		"runs", len(card.Runs), "balls", len(card.Balls), "wickets", len(card.Wickets), "innings", len(card.Innings))
	return p, true, nil
}

// GetCareerSnapshot returns the stored player with its current aggregates.
func (e *Engine) GetCareerSnapshot(ctx context.Context, id string) (*player.Profile, error) {
	return e.findPlayer(ctx, id)
}

// ListPlayers returns every player in registration order.
func (e *Engine) ListPlayers(ctx context.Context) ([]*player.Profile, error) {
	players, err := e.store.FindAllPlayers(ctx)
	if err != nil {
		e.metrics.IncStorageErrors()
		return nil, err
	}
	return players, nil
}

// CreatePlayer registers p. Career totals are derived from any seed history it carries.
func (e *Engine) CreatePlayer(ctx context.Context, p *player.Profile) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if e.strict {
		for _, m := range metricsInOrder {
			for i, entry := range p.Scores.History(m) {
				if _, ok := ParseValue(entry.Value); !ok {
					return player.MalformedEntry{Metric: m, Index: i, Value: entry.Value}
				}
			}
		}
	}
	rank := p.Scores.Career.Rank
	p.Scores.Career = player.CareerAggregate{Rank: rank}
	for _, m := range metricsInOrder {
		e.aggregate(p, m)
	}
	if len(p.Scores.LastFour) > WindowSize {
		p.Scores.LastFour = p.Scores.LastFour[len(p.Scores.LastFour)-WindowSize:]
	}

	if err := e.store.Create(ctx, p); err != nil {
		e.metrics.IncStorageErrors()
		return err
	}
	e.count(metrics.KeyPlayersCreated)
	e.invalidate(ctx)
	log.Info("Created player", "player", p.ID, "name", p.Name)
	return nil
}

// UpdateProfile overwrites the non-empty fields of upd on the player.
func (e *Engine) UpdateProfile(ctx context.Context, id string, upd player.ProfileUpdate) (*player.Profile, error) {
	unlock := e.locks.Lock(id)
	defer unlock()

	p, err := e.findPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	if !upd.Apply(p) {
		return p, nil
	}
	if err := e.persist(ctx, p); err != nil {
		return nil, err
	}
	e.invalidate(ctx)
	log.Info("Updated player profile", "player", id)
	return p, nil
}

// UpdateImage replaces the player's portrait.
func (e *Engine) UpdateImage(ctx context.Context, id string, image string) (*player.Profile, error) {
	if image == "" {
		return nil, fmt.Errorf("%w: image is required", ErrInvalidProfile)
	}
	return e.UpdateProfile(ctx, id, player.ProfileUpdate{Image: image})
}

// DeletePlayer removes the player and everything it owns.
func (e *Engine) DeletePlayer(ctx context.Context, id string) error {
	unlock := e.locks.Lock(id)
	defer unlock()

	if err := e.store.Delete(ctx, id); err != nil {
		if !errors.Is(err, player.ErrNotFound) {
			e.metrics.IncStorageErrors()
		}
		return err
	}
	e.invalidate(ctx)
	log.Info("Deleted player", "player", id)
	return nil
}

// DeleteAll removes every player and returns how many were removed.
func (e *Engine) DeleteAll(ctx context.Context) (int64, error) {
	n, err := e.store.DeleteAll(ctx)
	if err != nil {
		e.metrics.IncStorageErrors()
		return 0, err
	}
	e.invalidate(ctx)
	log.Info("Deleted all players", "count", n)
	return n, nil
}

// aggregate recomputes the career total of m from the full history.
func (e *Engine) aggregate(p *player.Profile, m player.Metric) {
	total, malformed := Aggregate(m, p.Scores.History(m))
	for _, bad := range malformed {
		log.Warn("Malformed match entry counted as 0", "player", p.ID, "metric", bad.Metric, "index", bad.Index, "value", bad.Value)
		e.metrics.IncMalformedEntries(string(m))
	}
	p.Scores.Career.SetTotal(m, fmt.Sprint(total))
}

func (e *Engine) findPlayer(ctx context.Context, id string) (*player.Profile, error) {
	p, err := e.store.FindPlayer(ctx, id)
	if err != nil {
		if !errors.Is(err, player.ErrNotFound) {
			e.metrics.IncStorageErrors()
		}
		return nil, err
	}
	return p, nil
}

func (e *Engine) persist(ctx context.Context, p *player.Profile) error {
	if err := e.store.Persist(ctx, p); err != nil {
		if !errors.Is(err, player.ErrNotFound) {
			e.metrics.IncStorageErrors()
		}
		log.Error("Failed to persist player", "player", p.ID, "error", err)
		return err
	}
	return nil
}

func (e *Engine) invalidate(ctx context.Context) {
	e.cache.Invalidate(ctx)
}

func (e *Engine) count(key string) {
	if e.counters != nil {
		e.counters.Increment(key)
	}
}

func (e *Engine) publishRecompute(ctx context.Context, id string) {
	if e.publisher == nil {
		return
	}
	msg := pubsub.RecomputeMessage{Reason: "scorecard", PlayerID: id, RequestedAt: time.Now().UTC()}
	if err := e.publisher.SendMessage(ctx, pubsub.EventRecomputeRankings, msg); err != nil {
		log.Warn("Failed to publish ranking recompute", "player", id, "error", err)
	}
}
