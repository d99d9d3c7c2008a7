package cache

import (
	"context"
	"sync"

	"github.com/mauv0809/cricket-stats/internal/player"
)

var _ RankingCache = (*Memory)(nil)

// Memory is an in-process RankingCache.
type Memory struct {
	mu         sync.RWMutex
	entries    []player.RankEntry
	valid      bool
	generation uint64
}

// NewMemory returns an empty, dirty cache.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(ctx context.Context) ([]player.RankEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.valid {
		return nil, false
	}
	out := make([]player.RankEntry, len(m.entries))
	copy(out, m.entries)
	return out, true
}

func (m *Memory) Generation(ctx context.Context) (uint64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation, true
}

func (m *Memory) Set(ctx context.Context, gen uint64, entries []player.RankEntry) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return false
	}
	m.entries = make([]player.RankEntry, len(entries))
	copy(m.entries, entries)
	m.valid = true
	return true
}

func (m *Memory) Invalidate(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	m.entries = nil
	m.valid = false
}
