package scheduler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"Tradle/internal/assembler"
	"Tradle/internal/bots"
	"Tradle/internal/model"
	"Tradle/internal/notifier"
	"Tradle/internal/store"
)

const sendRetries = 3

// Generator produces the challenge for a date.
type Generator interface {
	Assemble(ctx context.Context, date time.Time) (*assembler.Result, error)
}

// Sender delivers announcements.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the daily pipeline on a cron schedule: generate the
// challenge, seed its leaderboard, announce it.
type Scheduler struct {
	Cron      *cron.Cron
	Generator Generator
	Store     store.Store
	Notifier  Sender
	Ctx       context.Context

	timeout    time.Duration
	botsPerDay int
	loc        *time.Location
	now        func() time.Time
	logger     *zap.Logger
}

type Option func(*Scheduler)

// WithTimeout bounds one daily run.
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.timeout = d }
}

func WithBotsPerDay(n int) Option {
	return func(s *Scheduler) { s.botsPerDay = n }
}

// WithLocation sets the zone both cron and "today" are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) { s.loc = loc }
}

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// NewScheduler creates a new Scheduler. notifier may be nil.
func NewScheduler(ctx context.Context, gen Generator, st store.Store, n Sender, opts ...Option) *Scheduler {
	s := &Scheduler{
		Generator:  gen,
		Store:      st,
		Notifier:   n,
		Ctx:        ctx,
		timeout:    5 * time.Minute,
		botsPerDay: bots.DefaultCount,
		loc:        time.UTC,
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Cron = cron.New(cron.WithSeconds(), cron.WithLocation(s.loc))
	return s
}

// Register schedules the daily task.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return errors.Wrap(err, "register daily task")
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) today() time.Time {
	return s.now().In(s.loc)
}

func (s *Scheduler) dailyTask() {
	if err := s.RunDaily(s.Ctx); err != nil {
		s.logger.Error("daily task failed", zap.Error(err))
	}
}

// RunDaily generates (or loads) today's challenge, makes sure its leaderboard
// exists and announces newly created challenges.
func (s *Scheduler) RunDaily(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	date := s.today()
	s.logger.Info("running daily task", zap.String("date", model.DateKey(date)))

	res, err := s.Generator.Assemble(ctx, date)
	if err != nil {
		s.trySend(parent, notifier.FormatFailure(date, err))
		return errors.Wrap(err, "assemble")
	}

	if err := s.ensureBots(ctx, res.Challenge); err != nil {
		s.logger.Error("seed leaderboard", zap.Int("day", res.Challenge.Day), zap.Error(err))
	}

	if res.Created {
		s.trySend(parent, notifier.FormatAnnouncement(res.Challenge))
	}
	return nil
}

// ensureBots writes the bot leaderboard for ch unless it already exists.
func (s *Scheduler) ensureBots(ctx context.Context, ch *model.Challenge) error {
	stats, seeded, err := bots.Ensure(ctx, s.Store, ch, s.botsPerDay)
	if err != nil || !seeded {
		return err
	}
	s.logger.Info("leaderboard seeded",
		zap.Int("day", ch.Day),
		zap.Int("bots", stats.Count),
		zap.Int("winners", stats.Winners),
		zap.Int("min_winners", stats.MinWinners),
		zap.Float64("avg_final", stats.AvgFinal))
	return nil
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	// Commands sent in groups arrive as /today@botname.
	name := strings.SplitN(fields[0], "@", 2)[0]

	switch name {
	case "/today":
		ch, err := s.Store.GetByDate(ctx, s.today())
		if err != nil {
			return s.lookupReply(err, "No challenge for today yet.")
		}
		return notifier.FormatAnnouncement(ch)
	case "/day":
		if len(fields) < 2 {
			return "Usage: /day N"
		}
		day, err := strconv.Atoi(fields[1])
		if err != nil || day <= 0 {
			return "Usage: /day N"
		}
		ch, err := s.Store.GetByDay(ctx, day)
		if err != nil {
			return s.lookupReply(err, "No challenge for day "+fields[1]+".")
		}
		return notifier.FormatChallenge(ch)
	case "/bots":
		day, err := s.botsDay(ctx, fields)
		if err != nil {
			return s.lookupReply(err, "No challenge for today yet.")
		}
		entries, err := s.Store.BotsForDay(ctx, day)
		if err != nil {
			return s.lookupReply(err, "")
		}
		return notifier.FormatLeaderboard(day, entries, 10)
	default:
		return notifier.HelpText()
	}
}

func (s *Scheduler) botsDay(ctx context.Context, fields []string) (int, error) {
	if len(fields) > 1 {
		if day, err := strconv.Atoi(fields[1]); err == nil && day > 0 {
			return day, nil
		}
	}
	ch, err := s.Store.GetByDate(ctx, s.today())
	if err != nil {
		return 0, err
	}
	return ch.Day, nil
}

func (s *Scheduler) lookupReply(err error, notFound string) string {
	if errors.Is(err, store.ErrNotFound) && notFound != "" {
		return notFound
	}
	s.logger.Error("command lookup failed", zap.Error(err))
	return "Something went wrong, try again later."
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, sendRetries); err != nil {
		s.logger.Error("send notification", zap.Error(err))
	}
}
