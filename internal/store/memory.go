package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"Tradle/internal/model"
)

// MemoryStore keeps everything in process memory. It backs tests and
// one-shot CLI runs where no database is configured.
type MemoryStore struct {
	mu         sync.RWMutex
	challenges map[int]*model.Challenge
	byDate     map[string]int
	bots       map[int][]model.BotEntry
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		challenges: make(map[int]*model.Challenge),
		byDate:     make(map[string]int),
		bots:       make(map[int][]model.BotEntry),
	}
}

func (m *MemoryStore) Insert(_ context.Context, c *model.Challenge) error {
	if err := validateChallenge(c); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := model.DateKey(c.ChallengeDate)
	if _, ok := m.challenges[c.Day]; ok {
		return ErrDuplicateKey
	}
	if _, ok := m.byDate[key]; ok {
		return ErrDuplicateKey
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	cp := copyChallenge(c)
	cp.ChallengeDate = dayOf(c.ChallengeDate)
	m.challenges[c.Day] = cp
	m.byDate[key] = c.Day
	return nil
}

func (m *MemoryStore) GetByDate(_ context.Context, date time.Time) (*model.Challenge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	day, ok := m.byDate[model.DateKey(date)]
	if !ok {
		return nil, ErrNotFound
	}
	return copyChallenge(m.challenges[day]), nil
}

func (m *MemoryStore) GetByDay(_ context.Context, day int) (*model.Challenge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.challenges[day]
	if !ok {
		return nil, ErrNotFound
	}
	return copyChallenge(c), nil
}

func (m *MemoryStore) LatestDay(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	latest := 0
	for day := range m.challenges {
		if day > latest {
			latest = day
		}
	}
	return latest, nil
}

func (m *MemoryStore) InsertBots(_ context.Context, entries []model.BotEntry) error {
	if err := validateBots(entries); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	day := entries[0].Day
	if _, ok := m.bots[day]; ok {
		return ErrDuplicateKey
	}
	cp := make([]model.BotEntry, len(entries))
	copy(cp, entries)
	for i := range cp {
		if cp[i].ID == uuid.Nil {
			cp[i].ID = uuid.New()
		}
	}
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].FinalValue > cp[j].FinalValue })
	m.bots[day] = cp
	return nil
}

func (m *MemoryStore) BotsForDay(_ context.Context, day int) ([]model.BotEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.bots[day]
	out := make([]model.BotEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
