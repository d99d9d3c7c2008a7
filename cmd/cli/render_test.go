package main

import (
	"bytes"
	"testing"

	"github.com/mauv0809/cricket-stats/internal/player"
	"github.com/stretchr/testify/assert"
)

func TestPrintRankings(t *testing.T) {
	var buf bytes.Buffer
	printRankings(&buf, []player.RankEntry{
		{PlayerID: "a", Name: "Kohli", TotalRuns: 90, TotalMatches: 2, AverageRuns: 45, Rank: 1},
		{PlayerID: "b", Name: "Sharma", TotalRuns: 30, TotalMatches: 3, AverageRuns: 10, Rank: 2},
	})

	out := buf.String()
	assert.Contains(t, out, "Kohli")
	assert.Contains(t, out, "45.00")
	assert.Contains(t, out, "10.00")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Kohli")), bytes.Index(buf.Bytes(), []byte("Sharma")))
}

func TestPrintPlayerCard(t *testing.T) {
	var buf bytes.Buffer
	p := &player.Profile{Name: "Bumrah", Role: "Bowler"}
	p.Scores.Career = player.CareerAggregate{Runs: "12", Wickets: "7"}
	p.Scores.LastFour = []string{"4", "8"}

	printPlayerCard(&buf, p)

	out := buf.String()
	assert.Contains(t, out, "Bumrah")
	assert.Contains(t, out, "4 8")
	assert.Contains(t, out, "7")
}

func TestPrintCounters_SortedKeys(t *testing.T) {
	var buf bytes.Buffer
	printCounters(&buf, map[string]int{"b_key": 2, "a_key": 1})

	out := buf.Bytes()
	assert.Less(t, bytes.Index(out, []byte("a_key")), bytes.Index(out, []byte("b_key")))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "3", orDash("3"))
	assert.Equal(t, "-", rankLabel(0))
	assert.Equal(t, "5", rankLabel(5))
}
