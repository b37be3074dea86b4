package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"bkds/internal/icons"
)

// EnvPrefix is prepended to every environment variable, e.g. BKDS_DATA_DIR.
const EnvPrefix = "BKDS"

// Config holds all configuration for the application.
// Values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddr         string        `mapstructure:"SERVER_ADDR"`
	DataDir            string        `mapstructure:"DATA_DIR"`
	ImagesDir          string        `mapstructure:"IMAGES_DIR"`
	AudioDir           string        `mapstructure:"AUDIO_DIR"`
	BadgerDBPath       string        `mapstructure:"BADGERDB_PATH"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	CacheTTL           time.Duration `mapstructure:"CACHE_TTL"`
	HeaderCacheTTL     time.Duration `mapstructure:"HEADER_CACHE_TTL"`
	CacheSweepInterval time.Duration `mapstructure:"CACHE_SWEEP_INTERVAL"`
	TTSCredentialsFile string        `mapstructure:"TTS_CREDENTIALS_FILE"`
	TelegramBotToken   string        `mapstructure:"TELEGRAM_BOT_TOKEN"`
	LinkPreviewEnabled bool          `mapstructure:"LINK_PREVIEW_ENABLED"`

	// SearchTerms overrides the built-in toolbar term pools. Only settable
	// from the config file.
	SearchTerms icons.Pools `mapstructure:"SEARCH_TERMS"`
}

var defaults = map[string]any{
	"SERVER_ADDR":          ":3000",
	"DATA_DIR":             "",
	"IMAGES_DIR":           "",
	"AUDIO_DIR":            "",
	"BADGERDB_PATH":        "./badger_data",
	"LOG_LEVEL":            "info",
	"CACHE_TTL":            "1h",
	"HEADER_CACHE_TTL":     "30m",
	"CACHE_SWEEP_INTERVAL": "10m",
	"TTS_CREDENTIALS_FILE": "",
	"TELEGRAM_BOT_TOKEN":   "",
	"LINK_PREVIEW_ENABLED": false,
}

// LoadConfig reads configuration from config.yaml under path, if present,
// with environment variables taking precedence.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// finalize validates cfg and fills the paths derived from DATA_DIR.
func (c *Config) finalize() error {
	if c.DataDir == "" {
		return fmt.Errorf("%s_DATA_DIR is not set", EnvPrefix)
	}
	if c.ImagesDir == "" {
		c.ImagesDir = filepath.Join(c.DataDir, "images")
	}
	if c.AudioDir == "" {
		c.AudioDir = filepath.Join(c.DataDir, "audio", "speech")
	}
	if c.TTSCredentialsFile == "" {
		c.TTSCredentialsFile = filepath.Join(c.DataDir, "config", "bkds_tts_api.json")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	if c.CacheTTL <= 0 || c.HeaderCacheTTL <= 0 {
		return errors.New("cache TTLs must be positive")
	}
	if c.CacheSweepInterval <= 0 {
		return errors.New("CACHE_SWEEP_INTERVAL must be positive")
	}
	c.SearchTerms = c.SearchTerms.WithDefaults()
	return nil
}
