package condenser

import (
	"fmt"

	"Tradle/internal/cache"
	"Tradle/internal/metrics"
	"Tradle/internal/model"
	"Tradle/internal/random"
)

// Cached memoises Condense per raw series. Jitter is seeded from the series
// (SeriesSeed), so a cache hit is identical to a fresh condensation.
type Cached struct {
	cache   cache.Cache[string, []model.CondensedPoint]
	metrics *metrics.Metrics
}

// NewCached wraps Condense with c. A nil cache disables memoisation.
func NewCached(c cache.Cache[string, []model.CondensedPoint], m *metrics.Metrics) *Cached {
	if c == nil {
		c = cache.Nop[string, []model.CondensedPoint]{}
	}
	return &Cached{cache: c, metrics: m}
}

// CacheKey identifies the raw series of symbol as served by source. Length
// and end dates alone collide across symbols fetched over the same window.
func CacheKey(symbol, source string, raw []model.RawPricePoint) string {
	if len(raw) == 0 {
		return fmt.Sprintf("%s_%s_0", symbol, source)
	}
	return fmt.Sprintf("%s_%s_%d_%s_%s", symbol, source, len(raw),
		model.DateKey(raw[0].Date), model.DateKey(raw[len(raw)-1].Date))
}

// Condense returns the playback series for raw, from cache when possible.
// key must identify the series (see CacheKey). Empty input is never cached.
func (c *Cached) Condense(key string, raw []model.RawPricePoint) []model.CondensedPoint {
	if len(raw) == 0 {
		return Condense(raw, random.New(SeriesSeed(raw)))
	}
	if pts, ok := c.cache.Get(key); ok {
		c.metrics.RecordCacheHit("condensed")
		return pts
	}
	pts := Condense(raw, random.New(SeriesSeed(raw)))
	c.cache.Add(key, pts)
	return pts
}
