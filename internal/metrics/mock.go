package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	entriesAppended  map[string]int
	malformedEntries map[string]int
	rankingsComputed map[bool]int
	rankingDurations []float64
	motmSelected     int
	storageErrors    int
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		entriesAppended:  make(map[string]int),
		malformedEntries: make(map[string]int),
		rankingsComputed: make(map[bool]int),
		rankingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncEntriesAppended(metric string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entriesAppended[metric] += n
}

func (m *Mock) IncMalformedEntries(metric string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.malformedEntries[metric]++
}

func (m *Mock) IncRankingsComputed(persisted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rankingsComputed[persisted]++
}

func (m *Mock) ObserveRankingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rankingDurations = append(m.rankingDurations, duration)
}

func (m *Mock) IncMotmSelected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.motmSelected++
}

func (m *Mock) IncStorageErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storageErrors++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// EntriesAppended returns how many entries were recorded for metric.
func (m *Mock) EntriesAppended(metric string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entriesAppended[metric]
}

// MalformedEntries returns how many malformed entries were recorded for metric.
func (m *Mock) MalformedEntries(metric string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.malformedEntries[metric]
}

// RankingsComputed returns the number of ranking runs in the given mode.
func (m *Mock) RankingsComputed(persisted bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rankingsComputed[persisted]
}

// MotmSelected returns the number of times IncMotmSelected was called.
func (m *Mock) MotmSelected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.motmSelected
}

// StorageErrors returns the number of times IncStorageErrors was called.
func (m *Mock) StorageErrors() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storageErrors
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
