package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Asset maps a display name to a provider ticker symbol.
type Asset struct {
	Name   string `yaml:"name" validate:"required"`
	Ticker string `yaml:"ticker" validate:"required"`
}

type Config struct {
	Environment string `yaml:"environment" default:"production"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`

	Analysis struct {
		Assets         []Asset `yaml:"assets" validate:"min=1,dive"`
		StartDate      string  `yaml:"start_date" validate:"required"`
		EndDate        string  `yaml:"end_date" validate:"required"`
		RollingWindow  int     `yaml:"rolling_window" default:"21" validate:"gt=1"`
		BaselineYear   int     `yaml:"baseline_year" validate:"gt=1900"`
		MinWindow      int     `yaml:"min_window" default:"10" validate:"gt=1"`
		MinBaseline    int     `yaml:"min_baseline" default:"10" validate:"gt=1"`
		CrashStart     string  `yaml:"crash_start"`
		CrashEnd       string  `yaml:"crash_end"`
		AlertThreshold float64 `yaml:"alert_threshold" default:"3.0"`
		Concurrency    int     `yaml:"concurrency" default:"1" validate:"gte=1"`
	} `yaml:"analysis"`

	Output struct {
		Dir    string `yaml:"dir" default:"outputs"`
		Charts bool   `yaml:"charts" default:"true"`
	} `yaml:"output"`

	MarketData struct {
		BaseURL  string        `yaml:"base_url" default:"https://stooq.com/q/d/l/"`
		Timeout  time.Duration `yaml:"timeout" default:"30s"`
		Adjusted bool          `yaml:"adjusted" default:"true"`
	} `yaml:"marketdata"`

	Cache struct {
		Backend string        `yaml:"backend" default:"memory"` // memory, redis, layered
		TTL     time.Duration `yaml:"ttl" default:"24h"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"breakscan"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`

	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"breakscan.alerts"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"1s"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`

	Server struct {
		Enabled         bool          `yaml:"enabled"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`

	Metrics struct {
		Enabled bool `yaml:"enabled" default:"true"`
	} `yaml:"metrics"`
}

const dateLayout = "2006-01-02"

// Load reads and parses a YAML configuration file, fills defaults and
// validates it.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse builds a validated Config from raw YAML bytes.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("BREAKSCAN_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("BREAKSCAN_TICKERS"); v != "" {
		// name=ticker pairs, comma separated
		assets := make([]Asset, 0)
		for _, pair := range strings.Split(v, ",") {
			name, ticker, ok := strings.Cut(pair, "=")
			if !ok {
				return nil, fmt.Errorf("BREAKSCAN_TICKERS entry %q: want name=ticker", pair)
			}
			assets = append(assets, Asset{Name: name, Ticker: ticker})
		}
		c.Analysis.Assets = assets
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	start, err := time.Parse(dateLayout, c.Analysis.StartDate)
	if err != nil {
		return fmt.Errorf("analysis.start_date %q: %w", c.Analysis.StartDate, err)
	}
	end, err := time.Parse(dateLayout, c.Analysis.EndDate)
	if err != nil {
		return fmt.Errorf("analysis.end_date %q: %w", c.Analysis.EndDate, err)
	}
	if !start.Before(end) {
		return fmt.Errorf("analysis.start_date must precede end_date")
	}

	if (c.Analysis.CrashStart == "") != (c.Analysis.CrashEnd == "") {
		return fmt.Errorf("analysis.crash_start and crash_end must be set together")
	}
	if c.Analysis.CrashStart != "" {
		cs, err := time.Parse(dateLayout, c.Analysis.CrashStart)
		if err != nil {
			return fmt.Errorf("analysis.crash_start %q: %w", c.Analysis.CrashStart, err)
		}
		ce, err := time.Parse(dateLayout, c.Analysis.CrashEnd)
		if err != nil {
			return fmt.Errorf("analysis.crash_end %q: %w", c.Analysis.CrashEnd, err)
		}
		if !cs.Before(ce) {
			return fmt.Errorf("analysis.crash_start must precede crash_end")
		}
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host required when clickhouse is enabled")
	}
	switch c.Cache.Backend {
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be memory, redis or layered, got %q", c.Cache.Backend)
	}
	if c.Cache.Backend != "memory" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr required for backend %q", c.Cache.Backend)
	}
	return nil
}

// Span returns the parsed analysis date range. Validate has already
// guaranteed the dates parse.
func (c *Config) Span() (start, end time.Time) {
	start, _ = time.Parse(dateLayout, c.Analysis.StartDate)
	end, _ = time.Parse(dateLayout, c.Analysis.EndDate)
	return start, end
}

// CrashSpan returns the crash sub-window range and whether one is
// configured.
func (c *Config) CrashSpan() (start, end time.Time, ok bool) {
	if c.Analysis.CrashStart == "" {
		return time.Time{}, time.Time{}, false
	}
	start, _ = time.Parse(dateLayout, c.Analysis.CrashStart)
	end, _ = time.Parse(dateLayout, c.Analysis.CrashEnd)
	return start, end, true
}
