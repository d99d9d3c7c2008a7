package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/mauv0809/cricket-stats/internal/player"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// momResult is the man-of-the-match response: the profile plus the match score.
type momResult struct {
	player.Profile
	MatchScore int `json:"match_score"`
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// printRankings writes the ranking board.
func printRankings(w io.Writer, entries []player.RankEntry) {
	table := newTable(w)
	table.Header("#", "NAME", "MATCHES", "RUNS", "AVG")
	for _, e := range entries {
		table.Append(
			strconv.Itoa(e.Rank),
			e.Name,
			strconv.Itoa(e.TotalMatches),
			strconv.Itoa(e.TotalRuns),
			fmt.Sprintf("%.2f", e.AverageRuns),
		)
	}
	table.Render()
}

// printPlayers writes one row of career totals per player.
func printPlayers(w io.Writer, players []player.Profile) {
	table := newTable(w)
	table.Header("ID", "NAME", "ROLE", "RUNS", "BALLS", "WKTS", "INNS", "RANK", "LAST FOUR")
	for _, p := range players {
		table.Append(
			p.ID,
			p.Name,
			p.Role,
			orDash(p.Scores.Career.Runs),
			orDash(p.Scores.Career.Balls),
			orDash(p.Scores.Career.Wickets),
			orDash(p.Scores.Career.Innings),
			rankLabel(p.Scores.Career.Rank),
			strings.Join(p.Scores.LastFour, " "),
		)
	}
	table.Render()
}

// printPlayerCard writes a two-column card for one player.
func printPlayerCard(w io.Writer, p *player.Profile) {
	table := newTable(w)
	table.Header("FIELD", "VALUE")
	rows := [][]string{
		{"Name", p.Name},
		{"Role", p.Role},
		{"Batting", p.BattingStyle},
		{"Bowling", p.BowlingStyle},
		{"Matches", strconv.Itoa(len(p.Scores.Runs))},
		{"Runs", orDash(p.Scores.Career.Runs)},
		{"Balls", orDash(p.Scores.Career.Balls)},
		{"Wickets", orDash(p.Scores.Career.Wickets)},
		{"Innings", orDash(p.Scores.Career.Innings)},
		{"Rank", rankLabel(p.Scores.Career.Rank)},
		{"Last four", strings.Join(p.Scores.LastFour, " ")},
	}
	for _, row := range rows {
		table.Append(row[0], row[1])
	}
	table.Render()
}

func printManOfTheMatch(w io.Writer, m momResult) {
	fmt.Fprintf(w, "Man of the match: %s (match score %d)\n", m.Name, m.MatchScore)
	printPlayerCard(w, &m.Profile)
}

func printCounters(w io.Writer, counters map[string]int) {
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	table := newTable(w)
	table.Header("COUNTER", "VALUE")
	for _, k := range keys {
		table.Append(k, strconv.Itoa(counters[k]))
	}
	table.Render()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func rankLabel(rank int) string {
	if rank == 0 {
		return "-"
	}
	return strconv.Itoa(rank)
}
