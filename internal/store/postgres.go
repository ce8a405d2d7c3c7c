package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"Tradle/internal/model"
)

// Pool wraps pgxpool.Pool so stores and tests share one connection setup.
type Pool struct {
	*pgxpool.Pool
}

// NewPool connects to Postgres and verifies the connection.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse postgres dsn")
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Wrap(err, "connect to postgres")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	return &Pool{Pool: pool}, nil
}

const pgErrUniqueViolation = "23505"

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation
	}
	return false
}

func isNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// PostgresStore persists challenges to PostgreSQL.
type PostgresStore struct {
	pool   *Pool
	logger *zap.Logger
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects and applies the schema.
func NewPostgresStore(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pool, err := NewPool(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "apply schema")
	}
	logger.Info("postgres store opened")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) Insert(ctx context.Context, c *model.Challenge) error {
	if err := validateChallenge(c); err != nil {
		return err
	}
	priceData, err := encodePriceData(c.PriceData)
	if err != nil {
		return err
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	_, err = s.pool.Exec(ctx, `INSERT INTO daily_challenges (`+challengeColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)`,
		c.ID, c.Day, dayOf(c.ChallengeDate), c.Symbol, c.CompanyName,
		c.Sector, c.WikiLink, c.InfoLink,
		dayOf(c.DateRange.StartDate), dayOf(c.DateRange.EndDate), c.TradingDays,
		c.Params.StartingCash, c.Params.StartingShares, c.Params.TargetValue,
		c.Params.InitialStockPrice, c.Params.TargetReturnPercentage,
		c.Par.AverageBuyPrice, c.Par.TotalSharesBought, nullableFloat(c.Par.ProfitPerTrade),
		c.Par.FinalValue, c.Par.CashRemaining, c.Par.Efficiency,
		c.Tradability, c.Simulated, priceData, c.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return errors.Wrap(err, "insert challenge")
	}
	return nil
}

func (s *PostgresStore) GetByDate(ctx context.Context, date time.Time) (*model.Challenge, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+challengeColumns+` FROM daily_challenges WHERE challenge_date = $1`, dayOf(date))
	return scanPostgresChallenge(row)
}

func (s *PostgresStore) GetByDay(ctx context.Context, day int) (*model.Challenge, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+challengeColumns+` FROM daily_challenges WHERE day = $1`, day)
	return scanPostgresChallenge(row)
}

func (s *PostgresStore) LatestDay(ctx context.Context) (int, error) {
	var day int
	if err := s.pool.QueryRow(ctx, `SELECT COALESCE(MAX(day), 0) FROM daily_challenges`).Scan(&day); err != nil {
		return 0, errors.Wrap(err, "latest day")
	}
	return day, nil
}

func scanPostgresChallenge(row pgx.Row) (*model.Challenge, error) {
	var (
		c         model.Challenge
		ppt       sql.NullFloat64
		priceData string
	)
	err := row.Scan(
		&c.ID, &c.Day, &c.ChallengeDate, &c.Symbol, &c.CompanyName, &c.Sector, &c.WikiLink, &c.InfoLink,
		&c.DateRange.StartDate, &c.DateRange.EndDate, &c.TradingDays,
		&c.Params.StartingCash, &c.Params.StartingShares, &c.Params.TargetValue,
		&c.Params.InitialStockPrice, &c.Params.TargetReturnPercentage,
		&c.Par.AverageBuyPrice, &c.Par.TotalSharesBought, &ppt, &c.Par.FinalValue,
		&c.Par.CashRemaining, &c.Par.Efficiency, &c.Tradability, &c.Simulated, &priceData, &c.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "scan challenge")
	}
	if c.PriceData, err = decodePriceData(priceData); err != nil {
		return nil, err
	}
	c.DateRange.TradingDays = c.TradingDays
	c.Par.ProfitPerTrade = floatOrNaN(ppt)
	return &c, nil
}

func (s *PostgresStore) InsertBots(ctx context.Context, entries []model.BotEntry) error {
	if err := validateBots(entries); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback(ctx)

	// Serialise writers of the same day so the existence check holds.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(entries[0].Day)); err != nil {
		return errors.Wrap(err, "lock day")
	}

	var existing int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM leaderboard WHERE day = $1`, entries[0].Day).Scan(&existing); err != nil {
		return errors.Wrap(err, "count bots")
	}
	if existing > 0 {
		return ErrDuplicateKey
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		batch.Queue(`INSERT INTO leaderboard (`+botColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			e.ID, e.Day, e.Name, e.Strategy, e.FinalValue, e.PercentageChange,
			nullableFloat(e.AverageBuy), nullableFloat(e.ProfitPerTrade), e.NumTries)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return errors.Wrap(err, "insert bots")
	}
	return errors.Wrap(tx.Commit(ctx), "commit")
}

func (s *PostgresStore) BotsForDay(ctx context.Context, day int) ([]model.BotEntry, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+botColumns+` FROM leaderboard
		WHERE day = $1 ORDER BY final_value DESC, id ASC`, day)
	if err != nil {
		return nil, errors.Wrap(err, "query bots")
	}
	defer rows.Close()

	var out []model.BotEntry
	for rows.Next() {
		var (
			e        model.BotEntry
			avg, ppt sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &e.Day, &e.Name, &e.Strategy, &e.FinalValue,
			&e.PercentageChange, &avg, &ppt, &e.NumTries); err != nil {
			return nil, errors.Wrap(err, "scan bot")
		}
		e.AverageBuy = floatOrNaN(avg)
		e.ProfitPerTrade = floatOrNaN(ppt)
		out = append(out, e)
	}
	return out, errors.Wrap(rows.Err(), "iterate bots")
}

func (s *PostgresStore) Close() error {
	s.logger.Info("closing postgres store")
	s.pool.Close()
	return nil
}
