package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"StockPulse/internal/model"
)

const historyMaxLen = 500

// RedisConfig holds the connection settings for RedisRecorder.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// RunSummary is published on <prefix>:runs after every run.
type RunSummary struct {
	RunID      string       `json:"run_id"`
	FinishedAt time.Time    `json:"finished_at"`
	Records    int          `json:"records"`
	Failures   int          `json:"failures"`
	TopCode    string       `json:"top_code,omitempty"`
	TopAction  model.Action `json:"top_action,omitempty"`
}

// RedisRecorder caches the latest ranked run and per-symbol records.
//
// Keys:
//
//	<prefix>:latest        JSON of the whole ranked run
//	<prefix>:symbol:<code> JSON of one record, expires after TTL
//	<prefix>:history       stream of run summaries
//	<prefix>:runs          pub/sub channel of run summaries
type RedisRecorder struct {
	client *goredis.Client
	cfg    RedisConfig
}

// NewRedisRecorder connects and pings the server.
func NewRedisRecorder(ctx context.Context, cfg RedisConfig) (*RedisRecorder, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	slog.Info("redis recorder connected", "addr", cfg.Addr, "db", cfg.DB)
	return &RedisRecorder{client: client, cfg: cfg}, nil
}

func (r *RedisRecorder) Name() string { return "redis" }

func (r *RedisRecorder) key(parts ...string) string {
	k := r.cfg.Prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

// RecordRun writes all keys in one MULTI/EXEC and then publishes the summary.
func (r *RedisRecorder) RecordRun(ctx context.Context, res *model.RunResult) error {
	latest, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	summary := Summarize(res)
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, r.key("latest"), latest, 0)
		for i := range res.Records {
			rec := &res.Records[i]
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("marshal %s: %w", rec.Code, err)
			}
			pipe.Set(ctx, r.key("symbol", rec.Code), data, r.cfg.TTL)
		}
		pipe.XAdd(ctx, &goredis.XAddArgs{
			Stream: r.key("history"),
			MaxLen: historyMaxLen,
			Approx: true,
			Values: map[string]interface{}{"run_id": res.RunID, "data": summaryJSON},
		})
		pipe.Publish(ctx, r.key("runs"), summaryJSON)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis write: %w", err)
	}
	return nil
}

func (r *RedisRecorder) Close() error { return r.client.Close() }

// Summarize reduces a run to its published summary.
func Summarize(res *model.RunResult) RunSummary {
	s := RunSummary{
		RunID:      res.RunID,
		FinishedAt: res.FinishedAt,
		Records:    len(res.Records),
		Failures:   len(res.Failures),
	}
	if len(res.Records) > 0 {
		s.TopCode = res.Records[0].Code
		s.TopAction = res.Records[0].Action
	}
	return s
}
