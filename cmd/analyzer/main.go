package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockPulse/internal/analyzer"
	"StockPulse/internal/collector"
	"StockPulse/internal/config"
	"StockPulse/internal/logger"
	"StockPulse/internal/metrics"
	"StockPulse/internal/notifier"
	"StockPulse/internal/ranker"
	"StockPulse/internal/recorder"
	"StockPulse/internal/scheduler"
	"StockPulse/internal/strategy"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatal("load config", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("config validation", err)
	}
	level, _ := logger.ParseLevel(cfg.Log.Level)
	logger.Init("stockpulse", level)
	slog.Info("StockPulse starting", "config", cfgPath)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	an, err := analyzer.New(cfg.Analysis, strategy.Default(), ranker.DefaultPriorities())
	if err != nil {
		fatal("init analyzer", err)
	}

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		srv := metrics.NewServer(cfg.Metrics.Addr, m)
		srv.Start()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	rec := buildRecorders(ctx, cfg)
	rec.OnError = func(name string, _ error) { m.WriterErrors.WithLabelValues(name).Inc() }
	defer rec.Close()

	src := collector.NewCSVSource(cfg.Input.Dir)
	sched := scheduler.NewScheduler(ctx, src, an, rec)
	sched.Metrics = m
	sched.TopN = cfg.Telegram.TopN

	if cfg.Output.JSONPath != "" {
		if last, err := recorder.LoadJSONRun(cfg.Output.JSONPath); err != nil {
			slog.Warn("load last run snapshot", "err", err)
		} else if last != nil {
			sched.SetLast(last)
		}
	}

	// Init Telegram notifier
	if cfg.Telegram.Enabled() {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sched.Notifier = tn
		go tn.StartPolling(ctx, sched.HandleCommand)
		slog.Info("telegram polling started")
	} else {
		slog.Info("telegram disabled")
	}

	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		fatal("register cron task", err)
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Schedule.RunOnStart {
		slog.Info("run_on_start enabled, running analysis now")
		go func() {
			if _, err := sched.RunNow(ctx); err != nil {
				slog.Error("startup run failed", "err", err)
			}
		}()
	}

	slog.Info("StockPulse is running", "cron", cfg.Schedule.Cron, "input", cfg.Input.Dir)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutdown signal received, stopping")
	cancel()
}

// buildRecorders opens every configured writer. A writer that cannot connect is skipped.
func buildRecorders(ctx context.Context, cfg *config.Config) *recorder.Multi {
	multi := recorder.NewMulti()
	if cfg.Output.CSVPath != "" {
		multi.Recorders = append(multi.Recorders, recorder.NewCSVRecorder(cfg.Output.CSVPath))
	}
	if cfg.Output.JSONPath != "" {
		multi.Recorders = append(multi.Recorders, recorder.NewJSONRecorder(cfg.Output.JSONPath))
	}
	if cfg.Database.SQLitePath != "" {
		if sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath); err != nil {
			slog.Warn("init sqlite recorder failed, skipping", "err", err)
		} else {
			multi.Recorders = append(multi.Recorders, sr)
		}
	}
	if cfg.Database.PostgresDSN != "" {
		if pr, err := recorder.NewPostgresRecorder(ctx, cfg.Database.PostgresDSN); err != nil {
			slog.Warn("init postgres recorder failed, skipping", "err", err)
		} else {
			multi.Recorders = append(multi.Recorders, pr)
		}
	}
	if cfg.Redis.Addr != "" {
		rr, err := recorder.NewRedisRecorder(ctx, recorder.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			slog.Warn("init redis recorder failed, skipping", "err", err)
		} else {
			multi.Recorders = append(multi.Recorders, rr)
		}
	}
	if len(multi.Recorders) == 0 {
		slog.Warn("no result writers configured")
		multi.Recorders = append(multi.Recorders, recorder.NewNoopRecorder())
	}
	return multi
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}
