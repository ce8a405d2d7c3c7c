package collector

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Tradle/internal/metrics"
)

func TestCollector_RealData(t *testing.T) {
	m := &MockFetcher{Bars: MockBars(winStart, 252, 100, 150)}
	c := New(m)

	s, err := c.Collect(context.Background(), "AAPL", winStart, winEnd)
	require.NoError(t, err)
	assert.False(t, s.Simulated)
	assert.Equal(t, "mock", s.Source)
	assert.Len(t, s.Points, 252)
}

func TestCollector_CacheHit(t *testing.T) {
	m := &MockFetcher{Bars: MockBars(winStart, 100, 10, 20)}
	c := New(m, WithMetrics(metrics.New()))

	_, err := c.Collect(context.Background(), "AAPL", winStart, winEnd)
	require.NoError(t, err)
	s, err := c.Collect(context.Background(), "AAPL", winStart, winEnd)
	require.NoError(t, err)

	assert.Equal(t, 1, m.CallCount())
	assert.False(t, s.Simulated)
	assert.Len(t, s.Points, 100)
}

func TestCollector_FallbackOnErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		bars   int
		reason string
	}{
		{"http status", errors.Wrap(ErrHTTPStatus, "500"), 0, "http_status"},
		{"not found", ErrSymbolNotFound, 0, "symbol_not_found"},
		{"upstream rate limit", ErrRateLimited, 0, "rate_limited"},
		{"network", errors.New("connection refused"), 0, "fetch_error"},
		{"too few rows", nil, MinRows - 1, "insufficient_rows"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MockFetcher{Err: tt.err, Bars: MockBars(winStart, tt.bars, 10, 20)}
			c := New(m)

			s, err := c.Collect(context.Background(), "AAPL", winStart, winEnd)
			require.NoError(t, err)
			assert.True(t, s.Simulated)
			assert.Equal(t, SourceSynthetic, s.Source)
			assert.Equal(t, tt.reason, s.Reason)
			assert.Len(t, s.Points, 262)
		})
	}
}

func TestCollector_FallbackNotCached(t *testing.T) {
	m := &MockFetcher{Err: ErrHTTPStatus}
	c := New(m)

	_, _ = c.Collect(context.Background(), "AAPL", winStart, winEnd)
	_, _ = c.Collect(context.Background(), "AAPL", winStart, winEnd)
	assert.Equal(t, 2, m.CallCount())
}

func TestCollector_FallbackReproducible(t *testing.T) {
	c := New(&MockFetcher{Err: ErrHTTPStatus})

	a, _ := c.Collect(context.Background(), "AAPL", winStart, winEnd)
	b, _ := c.Collect(context.Background(), "AAPL", winStart, winEnd)
	assert.Equal(t, a.Points, b.Points)
}

func TestCollector_MinGapWaits(t *testing.T) {
	m := &MockFetcher{Bars: MockBars(winStart, 100, 10, 20)}
	c := New(m, WithMinGap(50*time.Millisecond))

	first, err := c.Collect(context.Background(), "AAPL", winStart, winEnd)
	require.NoError(t, err)
	assert.False(t, first.Simulated)

	began := time.Now()
	second, err := c.Collect(context.Background(), "MSFT", winStart, winEnd)
	require.NoError(t, err)
	assert.False(t, second.Simulated)
	assert.GreaterOrEqual(t, time.Since(began), 30*time.Millisecond)
	assert.Equal(t, 2, m.CallCount())
}

func TestCollector_MinGapPastDeadlineFallsBack(t *testing.T) {
	m := &MockFetcher{Bars: MockBars(winStart, 100, 10, 20)}
	c := New(m, WithMinGap(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	first, err := c.Collect(ctx, "AAPL", winStart, winEnd)
	require.NoError(t, err)
	assert.False(t, first.Simulated)

	second, err := c.Collect(ctx, "MSFT", winStart, winEnd)
	require.NoError(t, err)
	assert.True(t, second.Simulated)
	assert.Equal(t, "rate_limited", second.Reason)
	assert.Equal(t, 1, m.CallCount())
}

func TestCollector_MinGapCancelled(t *testing.T) {
	m := &MockFetcher{Bars: MockBars(winStart, 100, 10, 20)}
	c := New(m, WithMinGap(time.Hour))

	_, err := c.Collect(context.Background(), "AAPL", winStart, winEnd)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Collect(ctx, "MSFT", winStart, winEnd)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollector_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&MockFetcher{}).Collect(ctx, "AAPL", winStart, winEnd)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReason(t *testing.T) {
	assert.Equal(t, "", Reason(nil))
	assert.Equal(t, "insufficient_rows", Reason(errors.Wrap(ErrInsufficientRows, "x")))
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "AAPL_2020-01-01_2020-12-31", CacheKey("AAPL", winStart, winEnd))
}
