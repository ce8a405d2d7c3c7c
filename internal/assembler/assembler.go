// Package assembler turns a calendar date into that day's challenge: it walks
// seeded (stock, date range) candidates until one yields a playable series.
package assembler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"Tradle/internal/calculator"
	"Tradle/internal/catalog"
	"Tradle/internal/collector"
	"Tradle/internal/condenser"
	"Tradle/internal/daterange"
	"Tradle/internal/economics"
	"Tradle/internal/metrics"
	"Tradle/internal/model"
	"Tradle/internal/random"
	"Tradle/internal/store"
	"Tradle/internal/strategy"
)

var (
	// ErrGenerationFailed is the fatal class: no challenge could be produced.
	ErrGenerationFailed = errors.New("challenge generation failed")

	// ErrExhaustedAttempts means every candidate was rejected.
	ErrExhaustedAttempts = errors.Wrap(ErrGenerationFailed, "exhausted candidate attempts")
)

// Rejection states, used in DEBUG logs.
const (
	stateDateRange = "date_range"
	stateSelect    = "select_symbol"
	stateCondense  = "condense"
	stateEconomics = "economics"
)

// PriceSource provides raw bars for a symbol and window.
type PriceSource interface {
	Collect(ctx context.Context, symbol string, start, end time.Time) (collector.Series, error)
}

// Limits bounds the candidate search.
type Limits struct {
	MaxStocks      int
	RangesPerStock int
	MaxTotal       int
}

// DefaultLimits tries up to 10 stocks with 5 ranges each.
var DefaultLimits = Limits{
	MaxStocks:      DefaultMaxStocks,
	RangesPerStock: DefaultRangesPerStock,
	MaxTotal:       DefaultMaxTotal,
}

// Result is the outcome of Assemble. Created is false when the challenge for
// the date already existed.
type Result struct {
	Challenge  *model.Challenge
	Created    bool
	Candidates int
	Source     string
}

// Assembler produces and stores daily challenges.
type Assembler struct {
	catalog   *catalog.Catalog
	source    PriceSource
	condenser *condenser.Cached
	store     store.ChallengeStore
	limits    Limits
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

type Option func(*Assembler)

func WithLimits(l Limits) Option {
	return func(a *Assembler) { a.limits = l }
}

func WithCondenser(c *condenser.Cached) Option {
	return func(a *Assembler) { a.condenser = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Assembler) { a.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Assembler) { a.metrics = m }
}

// New creates an Assembler.
func New(cat *catalog.Catalog, source PriceSource, st store.ChallengeStore, opts ...Option) *Assembler {
	a := &Assembler{
		catalog:   cat,
		source:    source,
		condenser: condenser.NewCached(nil, nil),
		store:     st,
		limits:    DefaultLimits,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// accepted is a candidate that survived every check.
type accepted struct {
	symbol model.Symbol
	dates  model.DateRange
	series collector.Series
	points []model.CondensedPoint
	params model.GameParameters
}

// Assemble returns the challenge for date, generating and storing it if it
// does not exist yet. Deadline or cancellation of ctx fails generation.
func (a *Assembler) Assemble(ctx context.Context, date time.Time) (*Result, error) {
	began := time.Now()
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	log := a.logger.With(zap.String("date", model.DateKey(date)))

	existing, err := a.store.GetByDate(ctx, date)
	switch {
	case err == nil:
		log.Info("challenge already exists", zap.Int("day", existing.Day))
		a.metrics.RecordGeneration("existing", 0, time.Since(began))
		return &Result{Challenge: existing}, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, errors.Wrap(err, "lookup existing challenge")
	}

	seed := random.DailySeed(date.Year(), int(date.Month()), date.Day())
	acc, tried, err := a.search(ctx, seed, log)
	if err != nil {
		status := "exhausted"
		if ctx.Err() != nil {
			status = "timeout"
		}
		a.metrics.RecordGeneration(status, tried, time.Since(began))
		log.Error("challenge generation failed", zap.Int64("seed", seed), zap.Int("candidates", tried), zap.Error(err))
		return nil, err
	}

	ch, err := a.build(ctx, date, acc)
	if err != nil {
		return nil, err
	}

	if err := a.store.Insert(ctx, ch); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			// Another writer got there first; theirs is the challenge.
			if stored, getErr := a.store.GetByDate(ctx, date); getErr == nil {
				return &Result{Challenge: stored, Candidates: tried}, nil
			}
		}
		return nil, errors.Wrap(err, "store challenge")
	}

	a.metrics.RecordGeneration("created", tried, time.Since(began))
	a.metrics.SetLatestDay(ch.Day)
	log.Info("challenge generated",
		zap.Int("day", ch.Day),
		zap.String("symbol", ch.Symbol),
		zap.String("start", model.DateKey(ch.DateRange.StartDate)),
		zap.String("end", model.DateKey(ch.DateRange.EndDate)),
		zap.Float64("starting_cash", ch.Params.StartingCash),
		zap.Float64("target", ch.Params.TargetValue),
		zap.Bool("simulated", ch.Simulated),
		zap.Int("candidates", tried),
		zap.Duration("elapsed", time.Since(began)),
	)
	return &Result{Challenge: ch, Created: true, Candidates: tried, Source: acc.series.Source}, nil
}

// search walks the candidates for seed in order and returns the first that
// passes. Fetches are sequential.
func (a *Assembler) search(ctx context.Context, seed int64, log *zap.Logger) (*accepted, int, error) {
	candidates := Candidates(seed, a.limits.MaxStocks, a.limits.RangesPerStock, a.limits.MaxTotal)
	validRange := make(map[int]bool)
	tried := 0

	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, tried, errors.Wrapf(ErrGenerationFailed, "after %d candidates: %v", tried, err)
		}
		if cand.Fallback && validRange[cand.Stock] {
			continue
		}
		tried++
		clog := log.With(zap.Int("stock", cand.Stock), zap.Int("range", cand.Range))

		var dates model.DateRange
		if cand.Fallback {
			dates = daterange.Fallback()
		} else {
			dates = daterange.Generate(cand.RangeSeed)
			if !daterange.Valid(dates) {
				clog.Debug("candidate rejected",
					zap.String("state", stateDateRange),
					zap.Int("trading_days", dates.TradingDays))
				continue
			}
			validRange[cand.Stock] = true
		}

		symbol, err := a.catalog.Select(cand.StockSeed)
		if err != nil {
			clog.Debug("candidate rejected", zap.String("state", stateSelect), zap.Error(err))
			continue
		}

		series, err := a.source.Collect(ctx, symbol.Ticker, dates.StartDate, dates.EndDate)
		if err != nil {
			return nil, tried, errors.Wrapf(ErrGenerationFailed, "collect %s: %v", symbol.Ticker, err)
		}

		points := a.condenser.Condense(condenser.CacheKey(symbol.Ticker, series.Source, series.Points), series.Points)
		if len(points) != model.TotalDataPoints {
			clog.Debug("candidate rejected",
				zap.String("state", stateCondense),
				zap.String("symbol", symbol.Ticker),
				zap.Int("points", len(points)))
			continue
		}

		params := economics.Calculate(points)
		if !economics.Viable(params) {
			clog.Debug("candidate rejected",
				zap.String("state", stateEconomics),
				zap.String("symbol", symbol.Ticker),
				zap.Float64("starting_cash", params.StartingCash),
				zap.Float64("target", params.TargetValue),
				zap.Float64("target_return", params.TargetReturnPercentage))
			continue
		}

		return &accepted{symbol: symbol, dates: dates, series: series, points: points, params: params}, tried, nil
	}
	return nil, tried, errors.Wrapf(ErrExhaustedAttempts, "%d candidates", tried)
}

func (a *Assembler) build(ctx context.Context, date time.Time, acc *accepted) (*model.Challenge, error) {
	latest, err := a.store.LatestDay(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "latest day")
	}

	params := acc.params
	par := strategy.SimulatePar(acc.points, params)

	params.InitialStockPrice = calculator.RoundCents(params.InitialStockPrice)
	params.TargetReturnPercentage = calculator.RoundCents(params.TargetReturnPercentage)
	par.AverageBuyPrice = calculator.RoundCents(par.AverageBuyPrice)
	par.ProfitPerTrade = calculator.RoundCents(par.ProfitPerTrade)
	par.FinalValue = calculator.RoundCents(par.FinalValue)
	par.CashRemaining = calculator.RoundCents(par.CashRemaining)
	par.Efficiency = calculator.RoundTo(par.Efficiency, 4)

	return &model.Challenge{
		ID:            uuid.New(),
		Day:           latest + 1,
		ChallengeDate: date,
		Symbol:        acc.symbol.Ticker,
		CompanyName:   acc.symbol.Name,
		Sector:        acc.symbol.Sector,
		WikiLink:      acc.symbol.WikiLink,
		InfoLink:      acc.symbol.InfoLink,
		DateRange:     acc.dates,
		TradingDays:   acc.dates.TradingDays,
		Params:        params,
		Par:           par,
		PriceData:     acc.points,
		Tradability:   calculator.RoundTo(calculator.Tradability(model.Prices(acc.points)), 4),
		Simulated:     acc.series.Simulated,
		CreatedAt:     time.Now().UTC(),
	}, nil
}
