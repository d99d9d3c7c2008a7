package player

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for player records.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Metric names one of the per-match histories kept on a player.
type Metric string

const (
	MetricRuns    Metric = "runs"
	MetricBalls   Metric = "balls"
	MetricWickets Metric = "wickets"
	MetricInnings Metric = "innings"
)

// Profile is a player's identity plus the score document it owns.
type Profile struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Born         time.Time `json:"born"`
	Birthplace   string    `json:"birthplace"`
	BattingStyle string    `json:"battingstyle"`
	BowlingStyle string    `json:"bowlingstyle"`
	Debut        time.Time `json:"debut"`
	Image        *string   `json:"image"`
	Scores       Scores    `json:"scores"`
	// Version is bumped on every successful Persist.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Scores holds the append-only match histories and the values derived from them.
type Scores struct {
	Runs     []MatchEntry    `json:"runs"`
	Balls    []MatchEntry    `json:"balls"`
	Wickets  []MatchEntry    `json:"wickets"`
	Innings  []MatchEntry    `json:"innings"`
	LastFour []string        `json:"lastfour"`
	Career   CareerAggregate `json:"career"`
}

// MatchEntry is one observation of one metric for one match.
type MatchEntry struct {
	Value       string    `json:"value"`
	DateOfMatch time.Time `json:"DateOfMatch"`
	MatchID     string    `json:"match_id,omitempty"`
}

// CareerAggregate holds the career totals, each a decimal string, and the last persisted rank.
type CareerAggregate struct {
	Runs    string `json:"runs"`
	Balls   string `json:"balls"`
	Wickets string `json:"wickets"`
	Innings string `json:"innings"`
	Rank    int    `json:"rank"`
}

// RankEntry is one row of a computed ranking. It is never stored on its own.
type RankEntry struct {
	PlayerID     string  `json:"player_id"`
	Name         string  `json:"name"`
	TotalRuns    int     `json:"total_runs"`
	TotalMatches int     `json:"total_matches"`
	AverageRuns  float64 `json:"average_runs"`
	Rank         int     `json:"rank"`
}

// History returns the entries recorded for the given metric.
func (s *Scores) History(m Metric) []MatchEntry {
	switch m {
	case MetricRuns:
		return s.Runs
	case MetricBalls:
		return s.Balls
	case MetricWickets:
		return s.Wickets
	case MetricInnings:
		return s.Innings
	}
	return nil
}

// Append adds entries to the history of the given metric.
func (s *Scores) Append(m Metric, entries ...MatchEntry) {
	switch m {
	case MetricRuns:
		s.Runs = append(s.Runs, entries...)
	case MetricBalls:
		s.Balls = append(s.Balls, entries...)
	case MetricWickets:
		s.Wickets = append(s.Wickets, entries...)
	case MetricInnings:
		s.Innings = append(s.Innings, entries...)
	}
}

// Total returns the stored career total for the given metric.
func (c *CareerAggregate) Total(m Metric) string {
	switch m {
	case MetricRuns:
		return c.Runs
	case MetricBalls:
		return c.Balls
	case MetricWickets:
		return c.Wickets
	case MetricInnings:
		return c.Innings
	}
	return ""
}

// SetTotal overwrites the career total for the given metric.
func (c *CareerAggregate) SetTotal(m Metric, total string) {
	switch m {
	case MetricRuns:
		c.Runs = total
	case MetricBalls:
		c.Balls = total
	case MetricWickets:
		c.Wickets = total
	case MetricInnings:
		c.Innings = total
	}
}

// ProfileUpdate carries the profile fields to overwrite. Empty fields are left alone.
type ProfileUpdate struct {
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	Born         *time.Time `json:"born"`
	Birthplace   string     `json:"birthplace"`
	BattingStyle string     `json:"battingstyle"`
	BowlingStyle string     `json:"bowlingstyle"`
	Debut        *time.Time `json:"debut"`
	Image        string     `json:"image"`
}

// Apply copies the non-empty fields of u onto p and reports whether anything changed.
func (u ProfileUpdate) Apply(p *Profile) bool {
	changed := false
	if u.Name != "" {
		p.Name = u.Name
		changed = true
	}
	if u.Role != "" {
		p.Role = u.Role
		changed = true
	}
	if u.Born != nil {
		p.Born = *u.Born
		changed = true
	}
	if u.Birthplace != "" {
		p.Birthplace = u.Birthplace
		changed = true
	}
	if u.BattingStyle != "" {
		p.BattingStyle = u.BattingStyle
		changed = true
	}
	if u.BowlingStyle != "" {
		p.BowlingStyle = u.BowlingStyle
		changed = true
	}
	if u.Debut != nil {
		p.Debut = *u.Debut
		changed = true
	}
	if u.Image != "" {
		image := u.Image
		p.Image = &image
		changed = true
	}
	return changed
}
