package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Tradle/internal/notifier"
	"Tradle/internal/scheduler"
)

func newServeCommand() *cobra.Command {
	var runOnStart bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the daily scheduler, Telegram bot and metrics endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			return serve(ctx, a, runOnStart || os.Getenv("RUN_ON_START") == "true")
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "generate today's challenge immediately")
	return cmd
}

func serve(ctx context.Context, a *app, runOnStart bool) error {
	cfg := a.cfg
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy,
			notifier.WithBaseURL(cfg.Telegram.BaseURL),
			notifier.WithLogger(a.logger),
			notifier.WithMetrics(a.metrics))
		sender = tn
	} else {
		a.logger.Warn("telegram not configured, announcements disabled")
	}

	sched := scheduler.NewScheduler(ctx, a.assembler, a.store, sender,
		scheduler.WithTimeout(cfg.Generation.Timeout),
		scheduler.WithBotsPerDay(cfg.Generation.BotsPerDay),
		scheduler.WithLocation(loc),
		scheduler.WithLogger(a.logger))
	if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		a.logger.Info("telegram polling started")
	}

	if cfg.Metrics.Listen != "" {
		srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: metricsMux(a), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		a.logger.Info("metrics endpoint listening", zap.String("addr", cfg.Metrics.Listen))
	}

	if runOnStart {
		a.logger.Info("run-on-start enabled, generating today's challenge now")
		go func() {
			if err := sched.RunDaily(ctx); err != nil {
				a.logger.Error("initial run failed", zap.Error(err))
			}
		}()
	}

	a.logger.Info("tradle is running", zap.String("daily_cron", cfg.Schedule.DailyCron))
	<-ctx.Done()
	a.logger.Info("shutdown signal received, stopping")
	return nil
}

func metricsMux(a *app) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := a.store.LatestDay(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
