// Package store persists daily challenges and their bot leaderboards.
// Stores are append-only: a challenge day or date is written once.
package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"Tradle/internal/model"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a challenge day/date or a day's
	// leaderboard already exists.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)

// ChallengeStore keeps one challenge per calendar day.
type ChallengeStore interface {
	GetByDate(ctx context.Context, date time.Time) (*model.Challenge, error)
	GetByDay(ctx context.Context, day int) (*model.Challenge, error)
	// LatestDay returns the highest stored day, 0 when empty.
	LatestDay(ctx context.Context) (int, error)
	Insert(ctx context.Context, c *model.Challenge) error
	Close() error
}

// BotStore keeps the synthetic leaderboard rows of each day.
type BotStore interface {
	// InsertBots writes a whole day's entries at once.
	InsertBots(ctx context.Context, entries []model.BotEntry) error
	// BotsForDay returns a day's entries, best final value first.
	BotsForDay(ctx context.Context, day int) ([]model.BotEntry, error)
}

// Store is the full persistence surface.
type Store interface {
	ChallengeStore
	BotStore
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Open builds the store selected by driver.
func Open(ctx context.Context, driver, sqlitePath, postgresDSN string, logger *zap.Logger) (Store, error) {
	switch driver {
	case DriverSQLite:
		return NewSQLiteStore(sqlitePath, logger)
	case DriverPostgres:
		return NewPostgresStore(ctx, postgresDSN, logger)
	case DriverMemory, "":
		return NewMemoryStore(), nil
	default:
		return nil, errors.Wrapf(ErrInvalidInput, "unknown database driver %q", driver)
	}
}

func validateChallenge(c *model.Challenge) error {
	switch {
	case c == nil:
		return errors.Wrap(ErrInvalidInput, "nil challenge")
	case c.Day <= 0:
		return errors.Wrapf(ErrInvalidInput, "day %d", c.Day)
	case c.Symbol == "":
		return errors.Wrap(ErrInvalidInput, "empty symbol")
	case c.ChallengeDate.IsZero():
		return errors.Wrap(ErrInvalidInput, "zero challenge date")
	case len(c.PriceData) != model.TotalDataPoints:
		return errors.Wrapf(ErrInvalidInput, "%d price points", len(c.PriceData))
	}
	return nil
}

func validateBots(entries []model.BotEntry) error {
	if len(entries) == 0 {
		return errors.Wrap(ErrInvalidInput, "no bot entries")
	}
	day := entries[0].Day
	for _, e := range entries {
		if e.Day != day || e.Day <= 0 {
			return errors.Wrapf(ErrInvalidInput, "bot %s has day %d", e.Name, e.Day)
		}
	}
	return nil
}
