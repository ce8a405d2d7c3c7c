package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"Tradle/internal/assembler"
	"Tradle/internal/cache"
	"Tradle/internal/catalog"
	"Tradle/internal/collector"
	"Tradle/internal/condenser"
	"Tradle/internal/config"
	"Tradle/internal/logging"
	"Tradle/internal/metrics"
	"Tradle/internal/model"
	"Tradle/internal/store"
)

// app holds the wired components every command shares.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	metrics   *metrics.Metrics
	store     store.Store
	catalog   *catalog.Catalog
	assembler *assembler.Assembler
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Path(configPath))
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation")
	}
	return cfg, nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return catalog.Default()
	}
	return catalog.Load(cfg.Catalog.Path)
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	ds := cfg.DataSource
	switch ds.Provider {
	case "yahoo":
		return collector.NewYahooFetcher(ds.YahooURL, cfg.Proxy)
	case "mock":
		// Offline: every request falls back to the synthetic series.
		return &collector.MockFetcher{Err: collector.ErrSymbolNotFound}
	default:
		return collector.NewTiingoFetcher(ds.TiingoURL, ds.APIKey, cfg.Proxy)
	}
}

// newApp wires config, logging, storage and the generation pipeline.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}

	st, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.SQLitePath, cfg.Database.PostgresDSN, logger)
	if err != nil {
		return nil, errors.Wrap(err, "open store")
	}

	m := metrics.New()
	ds := cfg.DataSource
	fetcher := newFetcher(cfg)
	col := collector.New(fetcher,
		collector.WithCache(cache.NewTTL[string, []model.RawPricePoint](ds.CacheSize, ds.CacheTTL)),
		collector.WithMinGap(ds.MinRequestGap),
		collector.WithLogger(logger),
		collector.WithMetrics(m),
	)
	cond := condenser.NewCached(cache.NewTTL[string, []model.CondensedPoint](ds.CacheSize, ds.CacheTTL), m)

	gen := cfg.Generation
	asm := assembler.New(cat, col, st,
		assembler.WithCondenser(cond),
		assembler.WithLimits(assembler.Limits{
			MaxStocks:      gen.MaxStocks,
			RangesPerStock: gen.RangesPerStock,
			MaxTotal:       gen.MaxAttempts,
		}),
		assembler.WithLogger(logger),
		assembler.WithMetrics(m),
	)

	logger.Info("tradle initialised",
		zap.String("data_source", fetcher.Name()),
		zap.String("database", cfg.Database.Driver),
		zap.Int("symbols", cat.Len()))

	return &app{cfg: cfg, logger: logger, metrics: m, store: st, catalog: cat, assembler: asm}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// parseDate reads a YYYY-MM-DD flag, defaulting to today in the configured zone.
func (a *app) parseDate(value string) (time.Time, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return time.Time{}, err
	}
	if value == "" {
		return time.Now().In(loc), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "date %q", value)
	}
	return t, nil
}
