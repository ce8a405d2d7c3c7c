package collector

import (
	"context"
	"sync"
	"time"

	"Tradle/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	mu sync.Mutex

	// Bars is returned for any symbol not present in BySymbol.
	Bars     []model.RawPricePoint
	BySymbol map[string][]model.RawPricePoint
	Err      error
	Calls    int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(ctx context.Context, symbol string, _, _ time.Time) ([]model.RawPricePoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if bars, ok := m.BySymbol[symbol]; ok {
		return bars, nil
	}
	return m.Bars, nil
}

// CallCount returns how many times Fetch ran.
func (m *MockFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// MockBars builds count consecutive daily bars whose close moves linearly
// from first to last.
func MockBars(start time.Time, count int, first, last float64) []model.RawPricePoint {
	bars := make([]model.RawPricePoint, count)
	for i := 0; i < count; i++ {
		p := first
		if count > 1 {
			p = first + (last-first)*float64(i)/float64(count-1)
		}
		bars[i] = model.RawPricePoint{
			Date:   dateOnly(start).AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
