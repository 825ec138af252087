// Package config loads process-wide settings once at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/truthscore/factcheck"
)

// Config is passed explicitly to every component that needs a setting.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	FactCheck FactCheckConfig `yaml:"factcheck"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	UploadDir   string   `yaml:"upload_dir"`
	MaxUploadMB int64    `yaml:"max_upload_mb"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type FactCheckConfig struct {
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Development switches zap to the human readable console encoder.
	Development bool `yaml:"development"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":5000",
			UploadDir:   "static/uploads",
			MaxUploadMB: 64,
			CORSOrigins: []string{"*"},
		},
		FactCheck: FactCheckConfig{
			Endpoint: factcheck.DefaultEndpoint,
			Timeout:  factcheck.DefaultTimeout,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (optional),
// then a .env file in the working directory, then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Environment variable names.
const (
	EnvAddr             = "TRUTHSCORE_ADDR"
	EnvUploadDir        = "TRUTHSCORE_UPLOAD_DIR"
	EnvMaxUploadMB      = "TRUTHSCORE_MAX_UPLOAD_MB"
	EnvLogLevel         = "TRUTHSCORE_LOG_LEVEL"
	EnvFactCheckURL     = "TRUTHSCORE_FACTCHECK_ENDPOINT"
	EnvFactCheckTimeout = "TRUTHSCORE_FACTCHECK_TIMEOUT"
	EnvFactCheckKey     = "FACTCHECK_API_KEY"
)

func (c *Config) applyEnv() error {
	setString(&c.Server.Addr, EnvAddr)
	setString(&c.Server.UploadDir, EnvUploadDir)
	setString(&c.Log.Level, EnvLogLevel)
	setString(&c.FactCheck.Endpoint, EnvFactCheckURL)
	setString(&c.FactCheck.APIKey, EnvFactCheckKey)

	if v := os.Getenv(EnvMaxUploadMB); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxUploadMB, v, err)
		}
		c.Server.MaxUploadMB = n
	}
	if v := os.Getenv(EnvFactCheckTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvFactCheckTimeout, v, err)
		}
		c.FactCheck.Timeout = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Validate checks ranges and required fields. A missing API key is allowed;
// text verification then reports itself as not configured.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.UploadDir == "" {
		return fmt.Errorf("server.upload_dir must not be empty")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.FactCheck.Timeout <= 0 {
		return fmt.Errorf("factcheck.timeout must be positive, got %s", c.FactCheck.Timeout)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB << 20
}
