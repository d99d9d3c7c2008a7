package stats

import (
	"context"
	"testing"
	"time"

	"github.com/mauv0809/cricket-stats/internal/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onDay(p *player.Profile, runs, wickets string) *player.Profile {
	if runs != "" {
		p.Scores.Runs = append(p.Scores.Runs, player.MatchEntry{Value: runs, DateOfMatch: matchDay})
	}
	if wickets != "" {
		p.Scores.Wickets = append(p.Scores.Wickets, player.MatchEntry{Value: wickets, DateOfMatch: matchDay})
	}
	return p
}

func TestSelectManOfTheMatch_WicketsWeighTen(t *testing.T) {
	a := onDay(profile("a", "A"), "40", "")
	b := onDay(profile("b", "B"), "20", "3")
	env := newTestEnv(t, Options{}, a, b)

	winner, err := env.engine.SelectManOfTheMatch(context.Background(), matchDay)
	require.NoError(t, err)
	assert.Equal(t, "b", winner.Player.ID)
	assert.Equal(t, 50, winner.Score)
	assert.Equal(t, 20, winner.Runs)
	assert.Equal(t, 3, winner.Wickets)
	assert.Equal(t, 1, env.metrics.MotmSelected())
}

func TestSelectManOfTheMatch_TieKeepsPopulationOrder(t *testing.T) {
	a := onDay(profile("a", "A"), "50", "0")
	b := onDay(profile("b", "B"), "20", "3")

	winner, ok := SelectBest([]*player.Profile{a, b}, matchDay)
	require.True(t, ok)
	assert.Equal(t, "a", winner.Player.ID)

	winner, ok = SelectBest([]*player.Profile{b, a}, matchDay)
	require.True(t, ok)
	assert.Equal(t, "b", winner.Player.ID)
}

func TestSelectManOfTheMatch_ExactTimestampOnly(t *testing.T) {
	p := profile("a", "A")
	p.Scores.Runs = []player.MatchEntry{{Value: "80", DateOfMatch: matchDay.Add(time.Hour)}}
	env := newTestEnv(t, Options{}, p)

	_, err := env.engine.SelectManOfTheMatch(context.Background(), matchDay)
	assert.ErrorIs(t, err, player.ErrNotFound, "same calendar day, different time of day")
}

func TestSelectManOfTheMatch_ZeroScoreIsNotFound(t *testing.T) {
	env := newTestEnv(t, Options{}, onDay(profile("a", "A"), "0", "0"), profile("b", "B"))

	_, err := env.engine.SelectManOfTheMatch(context.Background(), matchDay)
	assert.ErrorIs(t, err, player.ErrNotFound)
	assert.Zero(t, env.metrics.MotmSelected())
}

func TestSelectManOfTheMatch_EmptyPopulation(t *testing.T) {
	_, ok := SelectBest(nil, matchDay)
	assert.False(t, ok)
}

func TestSelectManOfTheMatch_MalformedCountsZero(t *testing.T) {
	a := onDay(profile("a", "A"), "abc", "")
	a.Scores.Runs = append(a.Scores.Runs, player.MatchEntry{Value: "5", DateOfMatch: matchDay})
	b := onDay(profile("b", "B"), "4", "")

	winner, ok := SelectBest([]*player.Profile{b, a}, matchDay)
	require.True(t, ok)
	assert.Equal(t, "a", winner.Player.ID)
	assert.Equal(t, 5, winner.Score)
}
