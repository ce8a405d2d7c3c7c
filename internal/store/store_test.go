package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Tradle/internal/model"
)

func sampleChallenge(day int, date time.Time) *model.Challenge {
	pts := make([]model.CondensedPoint, model.TotalDataPoints)
	for i := range pts {
		pts[i] = model.CondensedPoint{Timestamp: i, Price: 100 + float64(i)*0.25, Volume: int64(1000 + i)}
	}
	start := time.Date(2019, 3, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2019, 9, 4, 0, 0, 0, 0, time.UTC)
	return &model.Challenge{
		Day:           day,
		ChallengeDate: date,
		Symbol:        "AAPL",
		CompanyName:   "Apple Inc.",
		Sector:        "Technology",
		WikiLink:      "https://en.wikipedia.org/wiki/Apple_Inc.",
		InfoLink:      "https://finance.yahoo.com/quote/AAPL",
		DateRange:     model.DateRange{StartDate: start, EndDate: end, TradingDays: 131},
		TradingDays:   131,
		Params: model.GameParameters{
			StartingCash:           5000,
			TargetValue:            6000,
			InitialStockPrice:      100,
			TargetReturnPercentage: 20,
		},
		Par: model.ParPerformance{
			AverageBuyPrice:   101.5,
			TotalSharesBought: 40,
			FinalValue:        6100,
			CashRemaining:     940,
			ProfitPerTrade:    27.5,
			Efficiency:        0.8123,
		},
		PriceData:   pts,
		Tradability: 0.42,
		Simulated:   true,
	}
}

func sampleBots(day, n int) []model.BotEntry {
	out := make([]model.BotEntry, n)
	for i := range out {
		out[i] = model.BotEntry{
			ID:               uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(day), byte(i)}),
			Day:              day,
			Name:             "bot",
			Strategy:         "Buy & Hold",
			FinalValue:       5000 + float64(i*10),
			PercentageChange: float64(i) / 5,
			AverageBuy:       100,
			ProfitPerTrade:   2.5,
			NumTries:         1 + i%3,
		}
	}
	return out
}

// runStoreContract exercises the behaviour every Store must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("EmptyLatestDay", func(t *testing.T) {
		s := newStore(t)
		day, err := s.LatestDay(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, day)
	})

	t.Run("InsertAndGet", func(t *testing.T) {
		s := newStore(t)
		c := sampleChallenge(1, date)
		require.NoError(t, s.Insert(ctx, c))
		assert.NotEqual(t, uuid.Nil, c.ID)

		byDate, err := s.GetByDate(ctx, date.Add(15*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, c.ID, byDate.ID)
		assert.Equal(t, "AAPL", byDate.Symbol)
		assert.Equal(t, "Technology", byDate.Sector)
		assert.Equal(t, model.DateKey(date), model.DateKey(byDate.ChallengeDate))
		assert.Equal(t, model.DateKey(c.DateRange.StartDate), model.DateKey(byDate.DateRange.StartDate))
		assert.Equal(t, 131, byDate.DateRange.TradingDays)
		assert.Equal(t, c.Params, byDate.Params)
		assert.Equal(t, c.Par, byDate.Par)
		assert.True(t, byDate.Simulated)
		assert.InDelta(t, 0.42, byDate.Tradability, 1e-9)
		require.Len(t, byDate.PriceData, model.TotalDataPoints)
		assert.Equal(t, c.PriceData[299], byDate.PriceData[299])

		byDay, err := s.GetByDay(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, c.ID, byDay.ID)

		latest, err := s.LatestDay(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, latest)
	})

	t.Run("NaNProfitPerTradeRoundTrips", func(t *testing.T) {
		s := newStore(t)
		c := sampleChallenge(1, date)
		c.Par.ProfitPerTrade = math.NaN()
		c.Par.TotalSharesBought = 0
		require.NoError(t, s.Insert(ctx, c))

		got, err := s.GetByDay(ctx, 1)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(got.Par.ProfitPerTrade))
	})

	t.Run("DuplicateDayAndDate", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Insert(ctx, sampleChallenge(1, date)))
		assert.ErrorIs(t, s.Insert(ctx, sampleChallenge(1, date.AddDate(0, 0, 1))), ErrDuplicateKey)
		assert.ErrorIs(t, s.Insert(ctx, sampleChallenge(2, date)), ErrDuplicateKey)
	})

	t.Run("NotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetByDay(ctx, 42)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetByDate(ctx, date)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		s := newStore(t)
		c := sampleChallenge(1, date)
		c.PriceData = c.PriceData[:10]
		assert.ErrorIs(t, s.Insert(ctx, c), ErrInvalidInput)
		assert.ErrorIs(t, s.Insert(ctx, nil), ErrInvalidInput)
		assert.ErrorIs(t, s.InsertBots(ctx, nil), ErrInvalidInput)
	})

	t.Run("Bots", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.InsertBots(ctx, sampleBots(3, 5)))
		assert.ErrorIs(t, s.InsertBots(ctx, sampleBots(3, 2)), ErrDuplicateKey)

		bots, err := s.BotsForDay(ctx, 3)
		require.NoError(t, err)
		require.Len(t, bots, 5)
		assert.Equal(t, 5040.0, bots[0].FinalValue)
		assert.Equal(t, 5000.0, bots[4].FinalValue)

		none, err := s.BotsForDay(ctx, 4)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	c := sampleChallenge(1, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.Insert(ctx, c))

	c.PriceData[0].Price = -1
	got, err := s.GetByDay(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.PriceData[0].Price)

	got.PriceData[0].Price = -2
	again, err := s.GetByDay(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100.0, again.PriceData[0].Price)
}

func TestSQLiteStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "tradle.db"), nil)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tradle.db")

	s, err := NewSQLiteStore(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Insert(ctx, sampleChallenge(7, time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path, nil)
	require.NoError(t, err)
	defer s.Close()
	day, err := s.LatestDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, day)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, DriverMemory, "", "", nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "x.db"), "", nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, "mongo", "", "", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
