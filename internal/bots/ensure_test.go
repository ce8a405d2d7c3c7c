package bots

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Tradle/internal/model"
	"Tradle/internal/store"
)

// dupStore reports every insert as a lost race.
type dupStore struct{ store.BotStore }

func (dupStore) BotsForDay(context.Context, int) ([]model.BotEntry, error) { return nil, nil }

func (dupStore) InsertBots(context.Context, []model.BotEntry) error { return store.ErrDuplicateKey }

func TestEnsure(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	ch := challenge(3, 1200)

	stats, seeded, err := Ensure(ctx, st, ch, 20)
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.Equal(t, 20, stats.Count)

	stored, err := st.BotsForDay(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, stored, 20)

	_, seeded, err = Ensure(ctx, st, ch, 20)
	require.NoError(t, err)
	assert.False(t, seeded, "existing leaderboard is kept")

	stored, err = st.BotsForDay(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, stored, 20)
}

func TestEnsure_Disabled(t *testing.T) {
	st := store.NewMemoryStore()
	_, seeded, err := Ensure(context.Background(), st, challenge(4, 1200), 0)
	require.NoError(t, err)
	assert.False(t, seeded)

	stored, err := st.BotsForDay(context.Background(), 4)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestEnsure_LostRace(t *testing.T) {
	_, seeded, err := Ensure(context.Background(), dupStore{}, challenge(5, 1200), 10)
	require.NoError(t, err)
	assert.False(t, seeded)
}
