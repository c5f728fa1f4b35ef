package recorder

import (
	"context"

	"StockPulse/internal/model"
)

// NoopRecorder is used when no writer is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Name() string                                          { return "noop" }
func (n *NoopRecorder) RecordRun(_ context.Context, _ *model.RunResult) error { return nil }
func (n *NoopRecorder) Close() error                                          { return nil }
