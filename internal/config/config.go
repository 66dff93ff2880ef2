package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all settings of the client. Values come from config.yaml in
// the config directory, then NUTRIPLAN_* environment variables, which win.
type Config struct {
	API APIConfig `mapstructure:"api"`
	Log LogConfig `mapstructure:"log"`
	UI  UIConfig  `mapstructure:"ui"`

	// Dir is where config.yaml, the session file and the log live.
	Dir string `mapstructure:"-"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	Production bool   `mapstructure:"production"`
}

type UIConfig struct {
	AltScreen bool `mapstructure:"alt_screen"`
}

// SessionPath is the token file location.
func (c Config) SessionPath() string {
	return filepath.Join(c.Dir, "session.json")
}

// DefaultDir is <user config dir>/nutriplan.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "nutriplan"), nil
}

// Load reads configuration from dir. A missing config.yaml or .env is not an error.
func Load(dir string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("NUTRIPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.base_url", "https://api.nutriplan.app")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("log.file", filepath.Join(dir, "nutriplan.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.production", false)
	v.SetDefault("ui.alt_screen", true)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Dir = dir
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	return cfg, nil
}
