package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither a flag nor CONFIG_PATH names a file.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider      string        `yaml:"provider" validate:"oneof=tiingo yahoo mock"`
		TiingoURL     string        `yaml:"tiingo_url" validate:"omitempty,url"`
		YahooURL      string        `yaml:"yahoo_url" validate:"omitempty,url"`
		APIKey        string        `yaml:"api_key"`
		MinRequestGap time.Duration `yaml:"min_request_gap" validate:"gte=0"`
		CacheTTL      time.Duration `yaml:"cache_ttl" validate:"gte=0"`
		CacheSize     int           `yaml:"cache_size" validate:"gte=1"`
	} `yaml:"data_source"`
	Catalog struct {
		Path string `yaml:"path"`
	} `yaml:"catalog"`
	Generation struct {
		Timeout        time.Duration `yaml:"timeout" validate:"gt=0"`
		BotsPerDay     int           `yaml:"bots_per_day" validate:"gte=0,lte=1000"`
		MaxStocks      int           `yaml:"max_stocks" validate:"gte=1"`
		RangesPerStock int           `yaml:"ranges_per_stock" validate:"gte=1"`
		MaxAttempts    int           `yaml:"max_attempts" validate:"gte=1"`
	} `yaml:"generation"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron" validate:"required"`
		Timezone  string `yaml:"timezone"`
	} `yaml:"schedule"`
	Database struct {
		Driver      string `yaml:"driver" validate:"oneof=sqlite postgres memory"`
		SQLitePath  string `yaml:"sqlite_path" validate:"required_if=Driver sqlite"`
		PostgresDSN string `yaml:"postgres_dsn" validate:"required_if=Driver postgres"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token" validate:"required_with=ChatID"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
		BaseURL  string `yaml:"base_url" validate:"omitempty,url"`
	} `yaml:"telegram"`
	Metrics struct {
		Listen string `yaml:"listen" validate:"omitempty,hostname_port"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" validate:"oneof=json console"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy" validate:"omitempty,url"`
}

// Path resolves the config file location: explicit flag, then CONFIG_PATH,
// then DefaultPath.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads .env, the YAML file at path (a missing file is fine) and applies
// environment variable overrides on top of Default. Keys present in the file
// win even when zero, so `min_request_gap: 0` disables the gate and
// `bots_per_day: 0` disables the leaderboard. It does not validate.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "read config")
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TIINGO_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Database.PostgresDSN = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("BOTS_PER_DAY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Generation.BotsPerDay = n
		}
	}
}

// Default returns the configuration used for every key a file leaves out.
func Default() *Config {
	cfg := &Config{}
	cfg.DataSource.Provider = "tiingo"
	cfg.DataSource.MinRequestGap = 12 * time.Second
	cfg.DataSource.CacheTTL = 24 * time.Hour
	cfg.DataSource.CacheSize = 256
	cfg.Generation.Timeout = 5 * time.Minute
	cfg.Generation.BotsPerDay = 100
	cfg.Generation.MaxStocks = 10
	cfg.Generation.RangesPerStock = 5
	cfg.Generation.MaxAttempts = 50
	cfg.Schedule.DailyCron = "0 5 0 * * *"
	cfg.Schedule.Timezone = "UTC"
	cfg.Database.Driver = "sqlite"
	cfg.Database.SQLitePath = "data/tradle.db"
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

// Location returns the scheduler's time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "schedule.timezone %q", c.Schedule.Timezone)
	}
	return loc, nil
}

// TelegramEnabled reports whether announcements can be sent.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
