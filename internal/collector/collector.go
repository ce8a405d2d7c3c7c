package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"Tradle/internal/cache"
	"Tradle/internal/metrics"
	"Tradle/internal/model"
	"Tradle/internal/random"
)

const (
	DefaultCacheTTL  = 24 * time.Hour
	DefaultCacheSize = 256
	SourceSynthetic  = "synthetic"
)

// Series is the outcome of a collection. Simulated is set when the points
// came from the synthetic generator instead of Source.
type Series struct {
	Points    []model.RawPricePoint
	Simulated bool
	Source    string
	Reason    string
}

// Collector wraps a Fetcher with caching, a minimum request gap, the
// row-count check and the synthetic fallback.
type Collector struct {
	fetcher Fetcher
	cache   cache.Cache[string, []model.RawPricePoint]
	limiter *rate.Limiter
	logger  *zap.Logger
	metrics *metrics.Metrics
}

type Option func(*Collector)

// WithCache replaces the default TTL cache.
func WithCache(c cache.Cache[string, []model.RawPricePoint]) Option {
	return func(col *Collector) { col.cache = c }
}

// WithMinGap spaces upstream requests at least gap apart. A request waits
// for its turn; when the wait would outlast the context deadline it is
// answered with synthetic data instead. Zero disables the gate.
func WithMinGap(gap time.Duration) Option {
	return func(col *Collector) {
		if gap <= 0 {
			col.limiter = nil
			return
		}
		col.limiter = rate.NewLimiter(rate.Every(gap), 1)
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(col *Collector) { col.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(col *Collector) { col.metrics = m }
}

// New creates a Collector around fetcher.
func New(fetcher Fetcher, opts ...Option) *Collector {
	c := &Collector{
		fetcher: fetcher,
		cache:   cache.NewTTL[string, []model.RawPricePoint](DefaultCacheSize, DefaultCacheTTL),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CacheKey identifies a symbol and window in the raw price cache.
func CacheKey(symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s_%s_%s", symbol, model.DateKey(start), model.DateKey(end))
}

// Collect returns daily bars for symbol in [start, end]. Fetch failures never
// surface: they are answered with a synthetic series. The only error is the
// context's own.
func (c *Collector) Collect(ctx context.Context, symbol string, start, end time.Time) (Series, error) {
	key := CacheKey(symbol, start, end)
	if points, ok := c.cache.Get(key); ok {
		c.metrics.RecordCacheHit("raw_prices")
		return Series{Points: points, Source: c.fetcher.Name()}, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Series{}, ctxErr
			}
			return c.fallback(symbol, start, end, errors.Wrap(ErrRateLimited, err.Error())), nil
		}
	}

	began := time.Now()
	points, err := c.fetcher.Fetch(ctx, symbol, start, end)
	c.metrics.RecordFetch(c.fetcher.Name(), err, time.Since(began))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Series{}, ctxErr
		}
		return c.fallback(symbol, start, end, err), nil
	}
	if len(points) < MinRows {
		return c.fallback(symbol, start, end,
			errors.Wrapf(ErrInsufficientRows, "%d rows", len(points))), nil
	}

	c.cache.Add(key, points)
	return Series{Points: points, Source: c.fetcher.Name()}, nil
}

func (c *Collector) fallback(symbol string, start, end time.Time, cause error) Series {
	reason := Reason(cause)
	c.logger.Warn("using simulated price data",
		zap.String("symbol", symbol),
		zap.String("source", c.fetcher.Name()),
		zap.String("reason", reason),
		zap.Error(cause),
	)
	c.metrics.RecordFallback(reason)

	rng := random.New(SyntheticSeed(symbol, start, end))
	return Series{
		Points:    Synthetic(symbol, start, end, rng),
		Simulated: true,
		Source:    SourceSynthetic,
		Reason:    reason,
	}
}

// Reason names the error class that triggered a fallback.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrSymbolNotFound):
		return "symbol_not_found"
	case errors.Is(err, ErrInsufficientRows):
		return "insufficient_rows"
	case errors.Is(err, ErrHTTPStatus):
		return "http_status"
	default:
		return "fetch_error"
	}
}
