package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/kambuka/storagebot/internal/logger"
)

// Config holds all configuration for the bot.
type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Sheet    SheetConfig    `mapstructure:"sheet"`
	Suggest  SuggestConfig  `mapstructure:"suggest"`
	Health   HealthConfig   `mapstructure:"health"`
	Session  SessionConfig  `mapstructure:"session"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// TelegramConfig holds chat transport settings.
type TelegramConfig struct {
	Token string `mapstructure:"token"`
	Debug bool   `mapstructure:"debug"`
}

// SheetConfig holds the Google Sheets backend settings.
type SheetConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	ReadRange       string `mapstructure:"read_range"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// SuggestConfig holds text-suggestion provider settings.
type SuggestConfig struct {
	Type    string `mapstructure:"type"` // openai, zhipu, none
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// HealthConfig holds liveness endpoint settings.
type HealthConfig struct {
	Port int `mapstructure:"port"`
}

// SessionConfig holds conversational session settings.
type SessionConfig struct {
	TTLMinutes int `mapstructure:"ttl_minutes"` // 0 disables expiry
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Sheet: SheetConfig{
			ReadRange:       "A2:C",
			CredentialsFile: "/etc/secrets/service_account.json",
		},
		Suggest: SuggestConfig{
			Type:  "none",
			Model: "gpt-4o-mini",
		},
		Health: HealthConfig{
			Port: 8080,
		},
		Session: SessionConfig{
			TTLMinutes: 30,
		},
		Logging: LoggingConfig{
			Level:  string(logger.LevelInfo),
			Format: string(logger.FormatText),
		},
	}
}

// Load reads configuration from file and environment.
func Load(cfgFile string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/storagebot")
	}

	// Set defaults
	v.SetDefault("sheet.read_range", cfg.Sheet.ReadRange)
	v.SetDefault("sheet.credentials_file", cfg.Sheet.CredentialsFile)
	v.SetDefault("suggest.type", cfg.Suggest.Type)
	v.SetDefault("suggest.model", cfg.Suggest.Model)
	v.SetDefault("health.port", cfg.Health.Port)
	v.SetDefault("session.ttl_minutes", cfg.Session.TTLMinutes)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	// Environment variable overrides
	v.SetEnvPrefix("STORAGEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// Config file not found, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Explicitly check secrets in environment (Viper nested env binding is unreliable)
	if cfg.Telegram.Token == "" {
		if token := os.Getenv("STORAGEBOT_TELEGRAM_TOKEN"); token != "" {
			cfg.Telegram.Token = token
		} else if token := os.Getenv("BOT_TOKEN"); token != "" {
			cfg.Telegram.Token = token
		}
	}

	if cfg.Sheet.SpreadsheetID == "" {
		if id := os.Getenv("STORAGEBOT_SHEET_SPREADSHEET_ID"); id != "" {
			cfg.Sheet.SpreadsheetID = id
		} else if id := os.Getenv("SHEET_ID"); id != "" {
			cfg.Sheet.SpreadsheetID = id
		} else if url := os.Getenv("SHEET_URL"); url != "" {
			cfg.Sheet.SpreadsheetID = SpreadsheetIDFromURL(url)
		}
	}

	if cfg.Suggest.APIKey == "" {
		if key := os.Getenv("STORAGEBOT_SUGGEST_API_KEY"); key != "" {
			cfg.Suggest.APIKey = key
		} else if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			cfg.Suggest.APIKey = key
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Health.Port = p
		}
	}

	return cfg, nil
}

// Validate checks that startup-critical settings are present.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required (set BOT_TOKEN)")
	}
	if c.Sheet.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet ID is required (set SHEET_ID or SHEET_URL)")
	}
	return nil
}

// MaterializeCredentials writes the service-account JSON from the
// GOOGLE_CREDENTIALS_JSON environment variable to the configured credentials
// file if that file does not exist yet. Hosting platforms that only pass
// secrets through the environment rely on this.
func (c *Config) MaterializeCredentials() error {
	data := os.Getenv("GOOGLE_CREDENTIALS_JSON")
	if data == "" {
		return nil
	}

	if _, err := os.Stat(c.Sheet.CredentialsFile); err == nil {
		return nil
	}

	if err := os.WriteFile(c.Sheet.CredentialsFile, []byte(data), 0600); err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}
	return nil
}

var spreadsheetURLRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// SpreadsheetIDFromURL extracts the spreadsheet ID from a full sheet URL.
// A string that is not a URL is assumed to already be an ID.
func SpreadsheetIDFromURL(url string) string {
	if m := spreadsheetURLRe.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return strings.TrimSpace(url)
}
