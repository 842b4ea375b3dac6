package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/strategy"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is given.
const DefaultPath = "configs/config.yaml"

// WatchItem is one symbol the scheduler analyzes, with optional static fundamentals.
type WatchItem struct {
	Symbol       string                  `yaml:"symbol"`
	Fundamentals *model.FundamentalInput `yaml:"fundamentals"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider  string `yaml:"provider"` // yahoo, vstrader, mock
		BaseURL   string `yaml:"base_url"`
		APIKey    string `yaml:"api_key"`
		RateLimit int    `yaml:"rate_limit"` // requests per second, negative disables
		Days      int    `yaml:"days"`       // bars requested per symbol
	} `yaml:"data_source"`
	Schedule struct {
		AnalysisCron string `yaml:"analysis_cron"`
	} `yaml:"schedule"`
	Watchlist []WatchItem     `yaml:"watchlist"`
	Engine    strategy.Config `yaml:"engine"`
	Database  struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"redis"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; engine fields absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{Engine: strategy.DefaultConfig()}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("VSTRADER_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("VSTRADER_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("CRON_ANALYSIS"); v != "" {
		c.Schedule.AnalysisCron = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Watchlist = c.Watchlist[:0]
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Watchlist = append(c.Watchlist, WatchItem{Symbol: s})
			}
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = db
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.RateLimit == 0 {
		c.DataSource.RateLimit = 2
	}
	if c.DataSource.Days == 0 {
		c.DataSource.Days = 250
	}
	if c.Schedule.AnalysisCron == "" {
		c.Schedule.AnalysisCron = "0 30 16 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/signal_sentinel.db"
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = 15 * time.Minute
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	for i := range c.Watchlist {
		c.Watchlist[i].Symbol = strings.ToUpper(strings.TrimSpace(c.Watchlist[i].Symbol))
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return errors.New("telegram.bot_token and telegram.chat_id must be set together")
	}
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "vstrader":
		if c.DataSource.BaseURL == "" {
			return errors.New("data_source.base_url is required for vstrader")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.DataSource.Days < c.Engine.Indicators.MinBars {
		return fmt.Errorf("data_source.days (%d) must cover engine.indicators.min_bars (%d)",
			c.DataSource.Days, c.Engine.Indicators.MinBars)
	}
	seen := make(map[string]bool, len(c.Watchlist))
	for i, w := range c.Watchlist {
		if w.Symbol == "" {
			return fmt.Errorf("watchlist[%d].symbol is required", i)
		}
		if seen[w.Symbol] {
			return fmt.Errorf("watchlist symbol %s listed twice", w.Symbol)
		}
		seen[w.Symbol] = true
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}

// TelegramEnabled reports whether notifications and commands are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Symbols returns the watchlist symbols in configured order.
func (c *Config) Symbols() []string {
	out := make([]string, len(c.Watchlist))
	for i, w := range c.Watchlist {
		out[i] = w.Symbol
	}
	return out
}

// Fundamentals returns the static fundamentals configured for symbol, or nil.
func (c *Config) Fundamentals(symbol string) *model.FundamentalInput {
	symbol = strings.ToUpper(symbol)
	for _, w := range c.Watchlist {
		if w.Symbol == symbol {
			return w.Fundamentals
		}
	}
	return nil
}
