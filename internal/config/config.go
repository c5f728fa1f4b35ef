package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"StockPulse/internal/analyzer"
	"StockPulse/internal/logger"
)

// Config holds all application configuration.
type Config struct {
	Input    InputConfig      `yaml:"input" envconfig:"INPUT"`
	Output   OutputConfig     `yaml:"output" envconfig:"OUTPUT"`
	Database DatabaseConfig   `yaml:"database" envconfig:"DATABASE"`
	Redis    RedisConfig      `yaml:"redis" envconfig:"REDIS"`
	Analysis analyzer.Options `yaml:"analysis" ignored:"true"`
	Schedule ScheduleConfig   `yaml:"schedule" envconfig:"SCHEDULE"`
	Telegram TelegramConfig   `yaml:"telegram" envconfig:"TELEGRAM"`
	Metrics  MetricsConfig    `yaml:"metrics" envconfig:"METRICS"`
	Log      LogConfig        `yaml:"log" envconfig:"LOG"`
	Proxy    string           `yaml:"proxy" envconfig:"HTTPS_PROXY"`
}

type InputConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR"`
}

// OutputConfig selects the report files. An empty path disables that file.
type OutputConfig struct {
	CSVPath  string `yaml:"csv_path" envconfig:"CSV_PATH"`
	JSONPath string `yaml:"json_path" envconfig:"JSON_PATH"`
}

// DatabaseConfig enables the SQL writers. An empty field disables that writer.
type DatabaseConfig struct {
	SQLitePath  string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	PostgresDSN string `yaml:"postgres_dsn" envconfig:"POSTGRES_DSN"`
}

// RedisConfig enables the snapshot writer when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr" envconfig:"ADDR"`
	Password string        `yaml:"password" envconfig:"PASSWORD"`
	DB       int           `yaml:"db" envconfig:"DB"`
	Prefix   string        `yaml:"prefix" envconfig:"PREFIX"`
	TTL      time.Duration `yaml:"ttl" envconfig:"TTL"`
}

type ScheduleConfig struct {
	Cron       string `yaml:"cron" envconfig:"CRON"`
	RunOnStart bool   `yaml:"run_on_start" envconfig:"RUN_ON_START"`
}

// TelegramConfig enables the summary notifier when both token and chat are set.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token" envconfig:"BOT_TOKEN"`
	ChatID   string `yaml:"chat_id" envconfig:"CHAT_ID"`
	TopN     int    `yaml:"top_n" envconfig:"TOP_N"`
}

func (t TelegramConfig) Enabled() bool { return t.BotToken != "" && t.ChatID != "" }

type MetricsConfig struct {
	Addr string `yaml:"addr" envconfig:"ADDR"`
}

type LogConfig struct {
	Level string `yaml:"level" envconfig:"LEVEL"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{Analysis: analyzer.DefaultOptions()}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	// Environment variable overrides, e.g. TELEGRAM_BOT_TOKEN, REDIS_ADDR
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}

	// Defaults
	if cfg.Input.Dir == "" {
		cfg.Input.Dir = "data/input"
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "stockpulse"
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = 24 * time.Hour
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 0 18 * * 1-5"
	}
	if cfg.Telegram.TopN == 0 {
		cfg.Telegram.TopN = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all fields are consistent.
func (c *Config) Validate() error {
	if c.Input.Dir == "" {
		return fmt.Errorf("input.dir is required")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Telegram.TopN <= 0 {
		return fmt.Errorf("telegram.top_n must be positive")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must not be negative")
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis.ttl must not be negative")
	}
	if _, err := cron.NewParser(cronSpec).Parse(c.Schedule.Cron); err != nil {
		return fmt.Errorf("schedule.cron: %w", err)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	return nil
}

// cronSpec matches the scheduler's cron.WithSeconds parser.
const cronSpec = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor
