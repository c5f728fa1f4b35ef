package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"StockPulse/internal/analyzer"
	"StockPulse/internal/collector"
	"StockPulse/internal/logger"
	"StockPulse/internal/metrics"
	"StockPulse/internal/model"
	"StockPulse/internal/notifier"
	"StockPulse/internal/recorder"
)

// ErrRunInProgress is returned when a run is requested while another is still going.
var ErrRunInProgress = errors.New("analysis run already in progress")

const sendRetries = 3

// Scheduler runs the load, analyze, record and notify pipeline on a cron schedule
// and on demand. Runs never overlap.
type Scheduler struct {
	Cron     *cron.Cron
	Source   collector.Source
	Analyzer *analyzer.Analyzer
	Recorder recorder.Recorder
	Notifier notifier.Notifier // optional
	Metrics  *metrics.Metrics  // optional
	TopN     int
	Ctx      context.Context

	running sync.Mutex

	mu   sync.RWMutex
	last *model.RunResult
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, src collector.Source, an *analyzer.Analyzer, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Source:   src,
		Analyzer: an,
		Recorder: rec,
		TopN:     10,
		Ctx:      ctx,
	}
}

// Register schedules the analysis run.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.scheduledRun); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	slog.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	slog.Info("scheduler stopped")
}

// Last returns the most recent completed run, or nil.
func (s *Scheduler) Last() *model.RunResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// SetLast seeds the last run, e.g. from a snapshot loaded at startup.
func (s *Scheduler) SetLast(res *model.RunResult) {
	s.mu.Lock()
	s.last = res
	s.mu.Unlock()
}

func (s *Scheduler) scheduledRun() {
	if _, err := s.RunNow(s.Ctx); err != nil {
		slog.Error("scheduled run failed", "err", err)
	}
}

// RunNow executes one full run immediately. It fails with ErrRunInProgress instead of
// waiting when another run holds the lock.
func (s *Scheduler) RunNow(ctx context.Context) (*model.RunResult, error) {
	if !s.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.running.Unlock()

	start := time.Now()
	slog.Info("running analysis", "source", s.Source.Name())
	res, err := s.run(ctx)
	if err != nil {
		if s.Metrics != nil {
			s.Metrics.ObserveFailure(time.Since(start))
		}
		s.trySend(ctx, fmt.Sprintf("❌ Analysis run failed: %v", err))
		return nil, err
	}
	if s.Metrics != nil {
		s.Metrics.ObserveRun(res, time.Since(start))
	}
	s.SetLast(res)
	s.trySend(ctx, notifier.FormatRunSummary(res, s.TopN))
	return res, nil
}

func (s *Scheduler) run(ctx context.Context) (*model.RunResult, error) {
	series, loadFailures, err := s.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	res, err := s.Analyzer.Run(ctx, series)
	if err != nil {
		return nil, err
	}
	res.Failures = append(loadFailures, res.Failures...)

	ctx = logger.WithRunID(ctx, res.RunID)
	if err := s.Recorder.RecordRun(ctx, res); err != nil {
		// writer failures do not fail the run
		slog.Error("record run", append(logger.Attrs(ctx), "err", err)...)
	}
	slog.Info("run complete", append(logger.Attrs(ctx), "records", len(res.Records), "failures", len(res.Failures))...)
	return res, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch fields[0] {
	case "/run":
		go func() {
			if _, err := s.RunNow(ctx); errors.Is(err, ErrRunInProgress) {
				s.trySend(ctx, "⏳ A run is already in progress.")
			}
		}()
		return "▶️ Analysis started."
	case "/top":
		last := s.Last()
		if last == nil {
			return "No run yet."
		}
		n := s.TopN
		if len(fields) > 1 {
			if v, err := strconv.Atoi(fields[1]); err == nil && v > 0 {
				n = v
			}
		}
		return notifier.FormatTop(last, n)
	case "/failures":
		last := s.Last()
		if last == nil {
			return "No run yet."
		}
		return notifier.FormatFailures(last)
	case "/status":
		last := s.Last()
		if last == nil {
			return "No run yet."
		}
		return fmt.Sprintf("Last run %s finished %s\nRecords: %d | Skipped: %d",
			last.RunID, last.FinishedAt.Format("2006-01-02 15:04"), len(last.Records), len(last.Failures))
	default:
		return "Commands:\n• /run start an analysis\n• /top [n] best ranked symbols\n• /failures skipped symbols\n• /status last run"
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, sendRetries); err != nil {
		slog.Error("send notification", "err", err)
	}
}
