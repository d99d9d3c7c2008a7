package player

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MockStore is a mock implementation of the Store interface for testing.
// Without overrides it behaves like an in-memory store that copies documents in and out.
// It is safe for concurrent use.
type MockStore struct {
	mu      sync.Mutex
	players []*Profile

	// Spies for method calls
	FindPlayerFunc     func(ctx context.Context, id string) (*Profile, error)
	FindAllPlayersFunc func(ctx context.Context) ([]*Profile, error)
	PersistFunc        func(ctx context.Context, p *Profile) error
	CreateFunc         func(ctx context.Context, p *Profile) error
	DeleteFunc         func(ctx context.Context, id string) error
	DeleteAllFunc      func(ctx context.Context) (int64, error)

	// Call records
	FindPlayerCalls     []string
	FindAllPlayersCalls int
	PersistCalls        []*Profile
	CreateCalls         []*Profile
	DeleteCalls         []string
}

// NewMock creates a new mock instance seeded with the given players.
func NewMock(players ...*Profile) *MockStore {
	m := &MockStore{}
	for _, p := range players {
		m.players = append(m.players, cloneProfile(p))
	}
	return m
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindPlayerCalls = nil
	m.FindAllPlayersCalls = 0
	m.PersistCalls = nil
	m.CreateCalls = nil
	m.DeleteCalls = nil
}

func (m *MockStore) FindPlayer(ctx context.Context, id string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindPlayerCalls = append(m.FindPlayerCalls, id)
	if m.FindPlayerFunc != nil {
		return m.FindPlayerFunc(ctx, id)
	}
	for _, p := range m.players {
		if p.ID == id {
			return cloneProfile(p), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MockStore) FindAllPlayers(ctx context.Context) ([]*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindAllPlayersCalls++
	if m.FindAllPlayersFunc != nil {
		return m.FindAllPlayersFunc(ctx)
	}
	out := make([]*Profile, 0, len(m.players))
	for _, p := range m.players {
		out = append(out, cloneProfile(p))
	}
	return out, nil
}

func (m *MockStore) Persist(ctx context.Context, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistCalls = append(m.PersistCalls, cloneProfile(p))
	if m.PersistFunc != nil {
		return m.PersistFunc(ctx, p)
	}
	for i, stored := range m.players {
		if stored.ID != p.ID {
			continue
		}
		if stored.Version != p.Version {
			return ErrConflict
		}
		p.Version++
		m.players[i] = cloneProfile(p)
		return nil
	}
	return ErrNotFound
}

func (m *MockStore) Create(ctx context.Context, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, cloneProfile(p))
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("player-%d", len(m.players)+1)
	}
	p.Version = 1
	m.players = append(m.players, cloneProfile(p))
	return nil
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	for i, p := range m.players {
		if p.ID == id {
			m.players = slices.Delete(m.players, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MockStore) DeleteAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx)
	}
	n := int64(len(m.players))
	m.players = nil
	return n, nil
}

// Stored returns a copy of the stored document for id, or nil.
func (m *MockStore) Stored(id string) *Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.ID == id {
			return cloneProfile(p)
		}
	}
	return nil
}

func cloneProfile(p *Profile) *Profile {
	if p == nil {
		return nil
	}
	c := *p
	if p.Image != nil {
		img := *p.Image
		c.Image = &img
	}
	c.Scores.Runs = slices.Clone(p.Scores.Runs)
	c.Scores.Balls = slices.Clone(p.Scores.Balls)
	c.Scores.Wickets = slices.Clone(p.Scores.Wickets)
	c.Scores.Innings = slices.Clone(p.Scores.Innings)
	c.Scores.LastFour = slices.Clone(p.Scores.LastFour)
	return &c
}
