package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Render    RenderConfig    `mapstructure:"render"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Retention RetentionConfig `mapstructure:"retention"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds template database configuration.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// TemplatesConfig holds operator template configuration.
type TemplatesConfig struct {
	// Dir is an optional directory of *.yaml template definitions loaded
	// at startup on top of the built-in kinds. New kinds are data, not code.
	Dir string `mapstructure:"dir"`
}

// RenderConfig holds PDF renderer configuration.
type RenderConfig struct {
	OutputDir   string `mapstructure:"output_dir"`
	FontDir     string `mapstructure:"font_dir"`
	FontRegular string `mapstructure:"font_regular"`
	FontBold    string `mapstructure:"font_bold"`
}

// PipelineConfig holds the external text pipeline configuration.
type PipelineConfig struct {
	// Enabled determines whether drafts go through the remote pipeline.
	// When false, drafts render as assembled (passthrough).
	Enabled bool `mapstructure:"enabled"`

	// BaseURL is the base URL of the transformation service.
	BaseURL string `mapstructure:"base_url"`

	// APIKey authenticates against the transformation service.
	APIKey string `mapstructure:"api_key"`

	// Timeout bounds a single pipeline stage call.
	Timeout time.Duration `mapstructure:"timeout"`
}

// RetentionConfig holds the rendered-contract retention configuration.
type RetentionConfig struct {
	// Enabled determines whether old rendered files are swept.
	Enabled bool `mapstructure:"enabled"`

	// MaxAge is how long a rendered contract is kept after creation.
	MaxAge time.Duration `mapstructure:"max_age"`

	// Interval is the time between sweep cycles.
	Interval time.Duration `mapstructure:"interval"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from file and environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("database.dsn", "data/contractor.db")
	v.SetDefault("templates.dir", "")
	v.SetDefault("render.output_dir", "contracts")
	v.SetDefault("render.font_dir", "/usr/share/fonts/truetype/dejavu")
	v.SetDefault("render.font_regular", "DejaVuSansCondensed.ttf")
	v.SetDefault("render.font_bold", "DejaVuSansCondensed-Bold.ttf")
	v.SetDefault("pipeline.enabled", false)
	v.SetDefault("pipeline.base_url", "http://localhost:8090")
	v.SetDefault("pipeline.api_key", "")
	v.SetDefault("pipeline.timeout", "120s")
	v.SetDefault("retention.enabled", false)
	v.SetDefault("retention.max_age", "720h")
	v.SetDefault("retention.interval", "1h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Load from file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// Only return error if file was explicitly specified and is invalid
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// File not found is OK, we'll use defaults
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("CONTRACTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format.
func SetupLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
