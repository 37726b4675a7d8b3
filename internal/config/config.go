package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Ingest ordering modes.
const (
	OrderCompletion = "completion"
	OrderSelection  = "selection"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Data     DataConfig     `mapstructure:"data"`
	Log      LogConfig      `mapstructure:"log"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	UI       UIConfig       `mapstructure:"ui"`
	Server   ServerConfig   `mapstructure:"server"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// DataConfig points at the working directory for exports.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// PipelineConfig tunes the simulated pipeline.
type PipelineConfig struct {
	StepDelay time.Duration `mapstructure:"step_delay"`
	Seed      int64         `mapstructure:"seed"` // 0 = seed from clock
}

// IngestConfig controls how concurrent file reads are appended.
type IngestConfig struct {
	Order string `mapstructure:"order"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	ToastTTL time.Duration `mapstructure:"toast_ttl"`
}

// ServerConfig holds the read-only HTTP API settings.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExportDir is where table exports are written.
func (c Config) ExportDir() string {
	return filepath.Join(c.Data.Dir, "exports")
}

// Validate rejects settings the app cannot run with.
func (c Config) Validate() error {
	switch c.Ingest.Order {
	case OrderCompletion, OrderSelection:
	default:
		return fmt.Errorf("ingest.order: unknown mode %q (want %q or %q)", c.Ingest.Order, OrderCompletion, OrderSelection)
	}
	if c.Pipeline.StepDelay <= 0 {
		return fmt.Errorf("pipeline.step_delay must be positive, got %s", c.Pipeline.StepDelay)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path is empty")
	}
	return nil
}

func dataHome() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "etlstudio")
}

func setDefaults(v *viper.Viper) {
	home := dataHome()
	v.SetDefault("database.path", filepath.Join(home, "etlstudio.db"))
	v.SetDefault("data.dir", home)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(home, "etlstudio.log"))
	v.SetDefault("pipeline.step_delay", "2s")
	v.SetDefault("pipeline.seed", 0)
	v.SetDefault("ingest.order", OrderCompletion)
	v.SetDefault("ui.toast_ttl", "3s")
	v.SetDefault("server.addr", "127.0.0.1:8765")
	v.SetDefault("server.allowed_origins", []string{"*"})
}

// Load reads configuration from file and env. Env var overrides use prefix ETLSTUDIO_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ETLSTUDIO_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "etlstudio"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ETLSTUDIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit ETLSTUDIO_CONFIG that is missing or malformed is an error
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Ingest.Order = strings.ToLower(strings.TrimSpace(c.Ingest.Order))
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("ETLSTUDIO_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "etlstudio", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("data.dir", cfg.Data.Dir)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.path", cfg.Log.Path)
	v.Set("pipeline.step_delay", cfg.Pipeline.StepDelay.String())
	v.Set("pipeline.seed", cfg.Pipeline.Seed)
	v.Set("ingest.order", cfg.Ingest.Order)
	v.Set("ui.toast_ttl", cfg.UI.ToastTTL.String())
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.allowed_origins", cfg.Server.AllowedOrigins)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
