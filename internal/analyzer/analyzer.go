// Package analyzer runs the per-symbol analysis pipeline across a set of series and ranks
// the results.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"StockPulse/internal/calculator"
	"StockPulse/internal/levels"
	"StockPulse/internal/model"
	"StockPulse/internal/pattern"
	"StockPulse/internal/ranker"
	"StockPulse/internal/strategy"
)

// Options aggregates every pipeline parameter.
type Options struct {
	Indicators   calculator.Params      `yaml:"indicators"`
	Levels       levels.Params          `yaml:"levels"`
	Pullback     pattern.PullbackParams `yaml:"pullback"`
	SlopePeriods []int                  `yaml:"slope_periods"`
	Workers      int                    `yaml:"workers"`
}

// DefaultOptions returns the standard pipeline parameters with one worker per CPU.
func DefaultOptions() Options {
	return Options{
		Indicators:   calculator.DefaultParams(),
		Levels:       levels.DefaultParams(),
		Pullback:     pattern.DefaultPullbackParams(),
		SlopePeriods: append([]int(nil), pattern.DefaultSlopePeriods...),
		Workers:      runtime.NumCPU(),
	}
}

func (o Options) Validate() error {
	if err := o.Indicators.Validate(); err != nil {
		return err
	}
	if err := o.Levels.Validate(); err != nil {
		return err
	}
	if err := o.Pullback.Validate(); err != nil {
		return err
	}
	for _, p := range o.SlopePeriods {
		if p <= 0 {
			return fmt.Errorf("slope period must be positive, got %d", p)
		}
	}
	// the record and the slope rules read these periods
	for _, p := range pattern.DefaultSlopePeriods {
		if !slices.Contains(o.SlopePeriods, p) {
			return fmt.Errorf("slope_periods must include %v, missing %d", pattern.DefaultSlopePeriods, p)
		}
	}
	if o.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", o.Workers)
	}
	return nil
}

// Analyzer owns the decision engine and ranker shared by all symbols of a run.
type Analyzer struct {
	opts   Options
	engine *strategy.Engine
	ranker *ranker.Ranker
}

// New checks the options and proves the priority table covers every action the engine
// can produce.
func New(opts Options, engine *strategy.Engine, table ranker.PriorityTable) (*Analyzer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("analyzer options: %w", err)
	}
	r, err := ranker.New(table, engine.Actions())
	if err != nil {
		return nil, err
	}
	return &Analyzer{opts: opts, engine: engine, ranker: r}, nil
}

// Ranker returns the ranker used for ordering results.
func (a *Analyzer) Ranker() *ranker.Ranker { return a.ranker }

type outcome struct {
	record model.AnalysisRecord
	err    error
}

// Run analyzes every series on a bounded worker pool and ranks the records. Symbol failures
// are collected in the result. Cancelling ctx stops dispatching new symbols and fails the run
// once running symbols finish.
func (a *Analyzer) Run(ctx context.Context, series []model.SymbolSeries) (*model.RunResult, error) {
	res := &model.RunResult{RunID: uuid.NewString(), StartedAt: time.Now()}
	outcomes := make([]outcome, len(series))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(a.opts.Workers, max(len(series), 1)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = a.safeAnalyze(&series[i])
			}
		}()
	}

dispatch:
	for i := range series {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	records := make([]model.AnalysisRecord, 0, len(series))
	for i, o := range outcomes {
		if o.err != nil {
			s := &series[i]
			slog.Warn("symbol skipped", "run_id", res.RunID, "symbol", s.Key(), "err", o.err)
			res.Failures = append(res.Failures, model.SymbolFailure{Name: s.Name, Code: s.Code, Err: o.err})
			continue
		}
		records = append(records, o.record)
	}

	ranked, err := a.ranker.Rank(records)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}
	res.Records = ranked
	res.FinishedAt = time.Now()
	slog.Info("analysis finished", "run_id", res.RunID, "records", len(res.Records),
		"failures", len(res.Failures), "elapsed", res.FinishedAt.Sub(res.StartedAt))
	return res, nil
}

func (a *Analyzer) safeAnalyze(s *model.SymbolSeries) (o outcome) {
	defer func() {
		if r := recover(); r != nil {
			o = outcome{err: fmt.Errorf("panic while analyzing %s: %v", s.Key(), r)}
		}
	}()
	rec, err := a.AnalyzeSymbol(s)
	return outcome{record: rec, err: err}
}
