package assembler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Tradle/internal/cache"
	"Tradle/internal/catalog"
	"Tradle/internal/collector"
	"Tradle/internal/condenser"
	"Tradle/internal/daterange"
	"Tradle/internal/model"
	"Tradle/internal/store"
)

var testDate = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

func newTestAssembler(t *testing.T, fetcher collector.Fetcher, opts ...Option) (*Assembler, *store.MemoryStore) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	st := store.NewMemoryStore()
	col := collector.New(fetcher, collector.WithMinGap(0))
	return New(cat, col, st, opts...), st
}

func risingFetcher() *collector.MockFetcher {
	start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	return &collector.MockFetcher{Bars: collector.MockBars(start, 400, 50, 150)}
}

func TestCandidates(t *testing.T) {
	cands := Candidates(20250615, 10, 5, 50)
	require.Len(t, cands, 60)

	first := cands[0]
	assert.Equal(t, int64(20250615), first.StockSeed)
	assert.Equal(t, int64(20250615), first.RangeSeed)
	assert.False(t, first.Fallback)

	// Stock 1, range 2.
	c := cands[8]
	assert.Equal(t, 1, c.Stock)
	assert.Equal(t, 2, c.Range)
	assert.Equal(t, int64(20250616), c.StockSeed)
	assert.Equal(t, int64(20250615+7), c.RangeSeed)

	assert.True(t, cands[5].Fallback)
	assert.Equal(t, 0, cands[5].Stock)
}

func TestCandidates_MaxTotal(t *testing.T) {
	cands := Candidates(1, 10, 5, 7)
	ranges := 0
	for _, c := range cands {
		if !c.Fallback {
			ranges++
		}
	}
	assert.Equal(t, 7, ranges)
	assert.Len(t, cands, 9, "two stocks, each followed by its fallback")
}

func TestAssemble_CreatesChallenge(t *testing.T) {
	fetcher := risingFetcher()
	a, st := newTestAssembler(t, fetcher)

	res, err := a.Assemble(context.Background(), testDate)
	require.NoError(t, err)
	require.True(t, res.Created)
	assert.Equal(t, 1, res.Candidates)
	assert.Equal(t, "mock", res.Source)

	ch := res.Challenge
	assert.Equal(t, 1, ch.Day)
	assert.Equal(t, "2025-06-15", model.DateKey(ch.ChallengeDate))
	assert.Len(t, ch.PriceData, model.TotalDataPoints)
	assert.False(t, ch.Simulated)
	assert.True(t, daterange.Valid(ch.DateRange))
	assert.Equal(t, ch.DateRange.TradingDays, ch.TradingDays)
	assert.Equal(t, 1000.0, ch.Params.StartingCash)
	assert.Greater(t, ch.Params.TargetValue, ch.Params.StartingCash)
	assert.GreaterOrEqual(t, ch.Params.TargetReturnPercentage, 5.0)
	assert.Greater(t, ch.Par.TotalSharesBought, 0)
	assert.GreaterOrEqual(t, ch.Par.Efficiency, 0.0)
	assert.LessOrEqual(t, ch.Par.Efficiency, 1.0)

	stored, err := st.GetByDay(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, ch.ID, stored.ID)
}

// perSymbolFetcher serves every ticker the same window of bars at a
// ticker-specific price level.
type perSymbolFetcher struct{}

func (perSymbolFetcher) Name() string { return "per-symbol" }

func (perSymbolFetcher) Fetch(_ context.Context, symbol string, _, _ time.Time) ([]model.RawPricePoint, error) {
	first := firstClose(symbol)
	return collector.MockBars(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), 400, first, first*3), nil
}

func firstClose(symbol string) float64 {
	sum := 0
	for _, b := range []byte(symbol) {
		sum += int(b)
	}
	return float64(40 + sum%20)
}

func TestAssemble_SharedCondenserKeepsSymbolsApart(t *testing.T) {
	cond := condenser.NewCached(cache.NewTTL[string, []model.CondensedPoint](64, time.Hour), nil)
	a, _ := newTestAssembler(t, perSymbolFetcher{}, WithCondenser(cond))
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 6; i++ {
		res, err := a.Assemble(ctx, testDate.AddDate(0, 0, i))
		require.NoError(t, err)
		ch := res.Challenge
		seen[ch.Symbol] = true
		assert.Equal(t, firstClose(ch.Symbol), ch.PriceData[0].Price, "day %d %s", ch.Day, ch.Symbol)
	}
	assert.Greater(t, len(seen), 1)
}

func TestAssemble_ExistingShortCircuits(t *testing.T) {
	fetcher := risingFetcher()
	a, _ := newTestAssembler(t, fetcher)
	ctx := context.Background()

	first, err := a.Assemble(ctx, testDate)
	require.NoError(t, err)
	calls := fetcher.CallCount()

	again, err := a.Assemble(ctx, testDate.Add(5*time.Hour))
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, first.Challenge.ID, again.Challenge.ID)
	assert.Equal(t, calls, fetcher.CallCount())
}

func TestAssemble_DaysIncrease(t *testing.T) {
	a, _ := newTestAssembler(t, risingFetcher())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := a.Assemble(ctx, testDate.AddDate(0, 0, i))
		require.NoError(t, err)
		assert.Equal(t, i+1, res.Challenge.Day)
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	ctx := context.Background()
	a1, _ := newTestAssembler(t, risingFetcher())
	a2, _ := newTestAssembler(t, risingFetcher())

	r1, err := a1.Assemble(ctx, testDate)
	require.NoError(t, err)
	r2, err := a2.Assemble(ctx, testDate)
	require.NoError(t, err)

	assert.Equal(t, r1.Challenge.Symbol, r2.Challenge.Symbol)
	assert.Equal(t, r1.Challenge.DateRange, r2.Challenge.DateRange)
	assert.Equal(t, r1.Challenge.Params, r2.Challenge.Params)
	assert.Equal(t, r1.Challenge.PriceData, r2.Challenge.PriceData)
}

func TestAssemble_FetchFailureUsesSimulatedData(t *testing.T) {
	fetcher := &collector.MockFetcher{Err: collector.ErrSymbolNotFound}
	a, _ := newTestAssembler(t, fetcher)

	res, err := a.Assemble(context.Background(), testDate)
	require.NoError(t, err)
	assert.True(t, res.Challenge.Simulated)
	assert.Equal(t, collector.SourceSynthetic, res.Source)
	assert.Len(t, res.Challenge.PriceData, model.TotalDataPoints)
}

func TestAssemble_Exhausted(t *testing.T) {
	a, st := newTestAssembler(t, risingFetcher(), WithLimits(Limits{}))

	_, err := a.Assemble(context.Background(), testDate)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhaustedAttempts)
	assert.ErrorIs(t, err, ErrGenerationFailed)

	day, err := st.LatestDay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, day)
}

func TestAssemble_EmptyCatalogExhausts(t *testing.T) {
	st := store.NewMemoryStore()
	a := New(catalog.New(nil), collector.New(risingFetcher(), collector.WithMinGap(0)), st)

	_, err := a.Assemble(context.Background(), testDate)
	assert.ErrorIs(t, err, ErrExhaustedAttempts)
}

func TestAssemble_CancelledContext(t *testing.T) {
	a, _ := newTestAssembler(t, risingFetcher())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Assemble(ctx, testDate)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.NotErrorIs(t, err, ErrExhaustedAttempts)
}
