package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/mauv0809/cricket-stats/internal/player"
	"github.com/mauv0809/cricket-stats/internal/stats"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendManOfTheMatchFunc func(ctx context.Context, motm *stats.ManOfTheMatch, date time.Time, dryRun bool) (string, error)
	SendRankingsFunc      func(ctx context.Context, entries []player.RankEntry, dryRun bool) error

	// Call records
	SendManOfTheMatchCalls []SendManOfTheMatchCall
	SendRankingsCalls      [][]player.RankEntry

	FormatRankingsResponseCalls       [][]player.RankEntry
	FormatPlayerCardResponseCalls     []*player.Profile
	FormatPlayerNotFoundResponseCalls []string
}

// SendManOfTheMatchCall holds the arguments for a call to SendManOfTheMatch.
type SendManOfTheMatchCall struct {
	MOTM   *stats.ManOfTheMatch
	Date   time.Time
	DryRun bool
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendManOfTheMatchCalls = nil
	m.SendRankingsCalls = nil
	m.FormatRankingsResponseCalls = nil
	m.FormatPlayerCardResponseCalls = nil
	m.FormatPlayerNotFoundResponseCalls = nil
}

func (m *Mock) SendManOfTheMatch(ctx context.Context, motm *stats.ManOfTheMatch, date time.Time, dryRun bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendManOfTheMatchCalls = append(m.SendManOfTheMatchCalls, SendManOfTheMatchCall{MOTM: motm, Date: date, DryRun: dryRun})
	if m.SendManOfTheMatchFunc != nil {
		return m.SendManOfTheMatchFunc(ctx, motm, date, dryRun)
	}
	return "mock-ts", nil
}

func (m *Mock) SendRankings(ctx context.Context, entries []player.RankEntry, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendRankingsCalls = append(m.SendRankingsCalls, entries)
	if m.SendRankingsFunc != nil {
		return m.SendRankingsFunc(ctx, entries, dryRun)
	}
	return nil
}

// The format functions return plain maps so handlers can encode them like a Slack message.

func (m *Mock) FormatRankingsResponse(entries []player.RankEntry) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatRankingsResponseCalls = append(m.FormatRankingsResponseCalls, entries)
	return map[string]any{"text": "rankings", "count": len(entries)}, nil
}

func (m *Mock) FormatPlayerCardResponse(p *player.Profile) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatPlayerCardResponseCalls = append(m.FormatPlayerCardResponseCalls, p)
	return map[string]any{"text": p.Name}, nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatPlayerNotFoundResponseCalls = append(m.FormatPlayerNotFoundResponseCalls, query)
	return map[string]any{"text": "not found: " + query}, nil
}
