package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/cricket-stats/internal/database"
	"github.com/mauv0809/cricket-stats/internal/metrics"
	"github.com/mauv0809/cricket-stats/internal/player"
	"github.com/mauv0809/cricket-stats/internal/stats"
	"github.com/prometheus/client_golang/prometheus"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{"DB_NAME": "cricket.db"}
	for _, key := range []string{"DB_NAME", "TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"} {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			config[key] = value
		}
	}
	return config
}

var seedPlayers = []player.Profile{
	{Name: "Virat Kohli", Role: "Batsman", Birthplace: "Delhi", BattingStyle: "Right-hand bat", BowlingStyle: "Right-arm medium"},
	{Name: "Rohit Sharma", Role: "Batsman", Birthplace: "Nagpur", BattingStyle: "Right-hand bat", BowlingStyle: "Right-arm offbreak"},
	{Name: "Jasprit Bumrah", Role: "Bowler", Birthplace: "Ahmedabad", BattingStyle: "Right-hand bat", BowlingStyle: "Right-arm fast"},
	{Name: "Ravindra Jadeja", Role: "All-rounder", Birthplace: "Navagam-Khed", BattingStyle: "Left-hand bat", BowlingStyle: "Left-arm orthodox"},
	{Name: "Rishabh Pant", Role: "Wicketkeeper", Birthplace: "Haridwar", BattingStyle: "Left-hand bat"},
	{Name: "Kuldeep Yadav", Role: "Bowler", Birthplace: "Kanpur", BattingStyle: "Left-hand bat", BowlingStyle: "Left-arm wrist-spin"},
}

func main() {
	numMatches := flag.Int("matches", 12, "Number of matches to simulate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	engine := stats.New(player.New(db), metrics.NewService(prometheus.NewRegistry()), stats.Options{
		Counters: metrics.New(db),
	})
	ctx := context.Background()
	rng := rand.New(rand.NewSource(*seed))

	ids := make([]string, 0, len(seedPlayers))
	for _, sp := range seedPlayers {
		p := sp
		p.Born = time.Date(1985+rng.Intn(15), time.Month(1+rng.Intn(12)), 1+rng.Intn(28), 0, 0, 0, 0, time.UTC)
		if err := engine.CreatePlayer(ctx, &p); err != nil {
			log.Fatalf("Failed to create player %s: %s", p.Name, err)
		}
		ids = append(ids, p.ID)
	}
	log.Info("Created players", "count", len(ids))

	startTime := time.Now()
	firstMatch := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -7*(*numMatches))
	for i := 0; i < *numMatches; i++ {
		date := firstMatch.AddDate(0, 0, 7*i)
		for j, id := range ids {
			card := randomScorecard(rng, seedPlayers[j].Role)
			if _, err := engine.AppendMatchEntries(ctx, id, card, date); err != nil {
				log.Fatalf("Failed to append scorecard for %s: %s", id, err)
			}
		}
		log.Info("Seeded match", "completed", i+1, "total", *numMatches, "date", date.Format(time.DateOnly))
	}

	ranked, err := engine.ComputeRankings(ctx, true)
	if err != nil {
		log.Fatalf("Failed to persist rankings: %s", err)
	}
	for _, e := range ranked {
		log.Info("Ranked", "rank", e.Rank, "name", e.Name, "average", e.AverageRuns)
	}
	log.Info("Successfully seeded the database.", "duration", time.Since(startTime))
}

func randomScorecard(rng *rand.Rand, role string) stats.Scorecard {
	runs, wickets := rng.Intn(40), rng.Intn(2)
	switch role {
	case "Batsman", "Wicketkeeper":
		runs += rng.Intn(60)
	case "Bowler":
		wickets += rng.Intn(4)
	case "All-rounder":
		runs += rng.Intn(30)
		wickets += rng.Intn(3)
	}
	return stats.Scorecard{
		Runs:    []string{strconv.Itoa(runs)},
		Balls:   []string{strconv.Itoa(runs + rng.Intn(30))},
		Wickets: []string{strconv.Itoa(wickets)},
		Innings: []string{"1"},
	}
}
