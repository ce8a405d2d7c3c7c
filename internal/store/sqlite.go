package store

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"Tradle/internal/model"
)

const challengeColumns = `id, day, challenge_date, ticker_symbol, company_name, sector, wiki_link, stock_link,
	start_date, end_date, trading_days,
	starting_cash, starting_shares, target_value, initial_stock_price, target_return_percentage,
	par_average_buy_price, par_total_shares_bought, par_profit_per_trade, par_final_value,
	par_cash_remaining, par_efficiency, tradability, simulated, price_data, created_at`

const botColumns = `id, day, name, strategy, final_value, percentage_change_of_value, avg_buy, ppt, num_tries`

// SQLiteStore persists challenges to a SQLite database file.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	// WAL lets readers (CLI, bot commands) run while the daily job writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "set WAL mode")
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}

	logger.Info("sqlite store opened", zap.String("path", dbPath))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	for _, stmt := range strings.Split(sqliteSchema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrapf(err, "exec %q", firstLine(stmt))
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func isSQLiteConstraint(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}

func (s *SQLiteStore) Insert(ctx context.Context, c *model.Challenge) error {
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

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `INSERT INTO daily_challenges (`+challengeColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.ID.String(), c.Day, model.DateKey(c.ChallengeDate), c.Symbol, c.CompanyName,
		c.Sector, c.WikiLink, c.InfoLink,
		model.DateKey(c.DateRange.StartDate), model.DateKey(c.DateRange.EndDate), c.TradingDays,
		c.Params.StartingCash, c.Params.StartingShares, c.Params.TargetValue,
		c.Params.InitialStockPrice, c.Params.TargetReturnPercentage,
		c.Par.AverageBuyPrice, c.Par.TotalSharesBought, nullableFloat(c.Par.ProfitPerTrade),
		c.Par.FinalValue, c.Par.CashRemaining, c.Par.Efficiency,
		c.Tradability, c.Simulated, priceData, c.CreatedAt.Unix(),
	)
	if err != nil {
		if isSQLiteConstraint(err) {
			return ErrDuplicateKey
		}
		return errors.Wrap(err, "insert challenge")
	}
	return nil
}

func (s *SQLiteStore) GetByDate(ctx context.Context, date time.Time) (*model.Challenge, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+challengeColumns+` FROM daily_challenges WHERE challenge_date = ?`, model.DateKey(date))
	return scanSQLiteChallenge(row)
}

func (s *SQLiteStore) GetByDay(ctx context.Context, day int) (*model.Challenge, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+challengeColumns+` FROM daily_challenges WHERE day = ?`, day)
	return scanSQLiteChallenge(row)
}

func (s *SQLiteStore) LatestDay(ctx context.Context) (int, error) {
	var day sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(day) FROM daily_challenges`).Scan(&day); err != nil {
		return 0, errors.Wrap(err, "latest day")
	}
	return int(day.Int64), nil
}

func scanSQLiteChallenge(row *sql.Row) (*model.Challenge, error) {
	var (
		c                                     model.Challenge
		id, challengeDate, startDate, endDate string
		ppt                                   sql.NullFloat64
		priceData                             string
		createdAt                             int64
	)
	err := row.Scan(
		&id, &c.Day, &challengeDate, &c.Symbol, &c.CompanyName, &c.Sector, &c.WikiLink, &c.InfoLink,
		&startDate, &endDate, &c.TradingDays,
		&c.Params.StartingCash, &c.Params.StartingShares, &c.Params.TargetValue,
		&c.Params.InitialStockPrice, &c.Params.TargetReturnPercentage,
		&c.Par.AverageBuyPrice, &c.Par.TotalSharesBought, &ppt, &c.Par.FinalValue,
		&c.Par.CashRemaining, &c.Par.Efficiency, &c.Tradability, &c.Simulated, &priceData, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "scan challenge")
	}

	if c.ID, err = uuid.Parse(id); err != nil {
		return nil, errors.Wrap(err, "parse challenge id")
	}
	if c.ChallengeDate, err = time.Parse(time.DateOnly, challengeDate); err != nil {
		return nil, errors.Wrap(err, "parse challenge date")
	}
	if c.DateRange.StartDate, err = time.Parse(time.DateOnly, startDate); err != nil {
		return nil, errors.Wrap(err, "parse start date")
	}
	if c.DateRange.EndDate, err = time.Parse(time.DateOnly, endDate); err != nil {
		return nil, errors.Wrap(err, "parse end date")
	}
	if c.PriceData, err = decodePriceData(priceData); err != nil {
		return nil, err
	}
	c.DateRange.TradingDays = c.TradingDays
	c.Par.ProfitPerTrade = floatOrNaN(ppt)
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &c, nil
}

func (s *SQLiteStore) InsertBots(ctx context.Context, entries []model.BotEntry) error {
	if err := validateBots(entries); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM leaderboard WHERE day = ?`, entries[0].Day).Scan(&existing); err != nil {
		return errors.Wrap(err, "count bots")
	}
	if existing > 0 {
		return ErrDuplicateKey
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO leaderboard (`+botColumns+`, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return errors.Wrap(err, "prepare")
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if _, err := stmt.ExecContext(ctx, e.ID.String(), e.Day, e.Name, e.Strategy, e.FinalValue,
			e.PercentageChange, nullableFloat(e.AverageBuy), nullableFloat(e.ProfitPerTrade), e.NumTries, now); err != nil {
			if isSQLiteConstraint(err) {
				return ErrDuplicateKey
			}
			return errors.Wrap(err, "insert bot")
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

func (s *SQLiteStore) BotsForDay(ctx context.Context, day int) ([]model.BotEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+botColumns+` FROM leaderboard
		WHERE day = ? ORDER BY final_value DESC, id ASC`, day)
	if err != nil {
		return nil, errors.Wrap(err, "query bots")
	}
	defer rows.Close()

	var out []model.BotEntry
	for rows.Next() {
		var (
			e        model.BotEntry
			id       string
			avg, ppt sql.NullFloat64
		)
		if err := rows.Scan(&id, &e.Day, &e.Name, &e.Strategy, &e.FinalValue,
			&e.PercentageChange, &avg, &ppt, &e.NumTries); err != nil {
			return nil, errors.Wrap(err, "scan bot")
		}
		e.AverageBuy = floatOrNaN(avg)
		e.ProfitPerTrade = floatOrNaN(ppt)
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, errors.Wrap(err, "parse bot id")
		}
		out = append(out, e)
	}
	return out, errors.Wrap(rows.Err(), "iterate bots")
}

func (s *SQLiteStore) Close() error {
	s.logger.Info("closing sqlite store")
	return s.db.Close()
}
