package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"StockPulse/internal/analyzer"
	"StockPulse/internal/collector"
	"StockPulse/internal/metrics"
	"StockPulse/internal/model"
	"StockPulse/internal/ranker"
	"StockPulse/internal/strategy"
)

type captureNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (c *captureNotifier) Send(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, text)
	return nil
}

func (c *captureNotifier) SendWithRetry(ctx context.Context, text string, _ int) error {
	return c.Send(ctx, text)
}

func (c *captureNotifier) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

type captureRecorder struct {
	runs []*model.RunResult
	err  error
}

func (c *captureRecorder) Name() string { return "capture" }
func (c *captureRecorder) RecordRun(_ context.Context, res *model.RunResult) error {
	c.runs = append(c.runs, res)
	return c.err
}
func (c *captureRecorder) Close() error { return nil }

type failingSource struct{}

func (failingSource) Name() string { return "failing" }
func (failingSource) Load(context.Context) ([]model.SymbolSeries, []model.SymbolFailure, error) {
	return nil, nil, errors.New("disk gone")
}

func newScheduler(t *testing.T, src collector.Source) (*Scheduler, *captureRecorder, *captureNotifier) {
	t.Helper()
	opts := analyzer.DefaultOptions()
	opts.Workers = 2
	an, err := analyzer.New(opts, strategy.Default(), ranker.DefaultPriorities())
	if err != nil {
		t.Fatal(err)
	}
	rec := &captureRecorder{}
	n := &captureNotifier{}
	s := NewScheduler(context.Background(), src, an, rec)
	s.Notifier = n
	s.Metrics = metrics.New()
	return s, rec, n
}

func staticSource() *collector.StaticSource {
	end := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	return &collector.StaticSource{Series: []model.SymbolSeries{
		collector.SyntheticSeries("Alpha", "000001", 100, 150, end),
		collector.SyntheticSeries("Beta", "000002", 250, 60, end),
		{Name: "Empty", Code: "000003"},
	}}
}

func TestRunNow(t *testing.T) {
	s, rec, n := newScheduler(t, staticSource())
	res, err := s.RunNow(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 2 || len(res.Failures) != 1 {
		t.Fatalf("records %d failures %d", len(res.Records), len(res.Failures))
	}
	if len(rec.runs) != 1 || rec.runs[0] != res {
		t.Error("run not recorded")
	}
	if s.Last() != res {
		t.Error("last run not stored")
	}
	msgs := n.messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "Analyzed: 2 | Skipped: 1") {
		t.Errorf("messages = %v", msgs)
	}
	if got := testutil.ToFloat64(s.Metrics.RunsTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok runs = %v", got)
	}
}

func TestRunNow_RecorderErrorDoesNotFailRun(t *testing.T) {
	s, rec, _ := newScheduler(t, staticSource())
	rec.err = errors.New("db down")
	if _, err := s.RunNow(context.Background()); err != nil {
		t.Fatalf("writer failure must not fail the run: %v", err)
	}
	if s.Last() == nil {
		t.Error("last run should still be stored")
	}
}

func TestRunNow_SourceFailure(t *testing.T) {
	s, rec, n := newScheduler(t, failingSource{})
	if _, err := s.RunNow(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	if len(rec.runs) != 0 || s.Last() != nil {
		t.Error("failed run must not be recorded")
	}
	if msgs := n.messages(); len(msgs) != 1 || !strings.Contains(msgs[0], "disk gone") {
		t.Errorf("messages = %v", msgs)
	}
	if got := testutil.ToFloat64(s.Metrics.RunsTotal.WithLabelValues("failed")); got != 1 {
		t.Errorf("failed runs = %v", got)
	}
}

func TestRunNow_NoOverlap(t *testing.T) {
	s, rec, _ := newScheduler(t, staticSource())
	s.running.Lock()
	_, err := s.RunNow(context.Background())
	s.running.Unlock()
	if !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
	if len(rec.runs) != 0 {
		t.Error("overlapping run must not execute")
	}
}

func TestHandleCommand(t *testing.T) {
	s, _, _ := newScheduler(t, staticSource())
	ctx := context.Background()

	if got := s.HandleCommand(ctx, "/top"); got != "No run yet." {
		t.Errorf("before run: %q", got)
	}
	if _, err := s.RunNow(ctx); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		cmd  string
		want string
	}{
		{"/top 1", "Top 1"},
		{"/top", "Top 2"},
		{"/failures", "Skipped 1"},
		{"/status", "Records: 2 | Skipped: 1"},
		{"/help", "Commands:"},
	}
	for _, tt := range tests {
		if got := s.HandleCommand(ctx, tt.cmd); !strings.Contains(got, tt.want) {
			t.Errorf("%s: got %q, want it to contain %q", tt.cmd, got, tt.want)
		}
	}
	if got := s.HandleCommand(ctx, "   "); got != "" {
		t.Errorf("blank command reply = %q", got)
	}
}

func TestRegister(t *testing.T) {
	s, _, _ := newScheduler(t, staticSource())
	if err := s.Register("0 0 18 * * 1-5"); err != nil {
		t.Fatal(err)
	}
	if len(s.Cron.Entries()) != 1 {
		t.Errorf("entries = %d", len(s.Cron.Entries()))
	}
	if err := s.Register("not a cron"); err == nil {
		t.Error("expected invalid spec error")
	}
}
