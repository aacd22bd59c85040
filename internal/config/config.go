package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultModel = "gpt-4o-mini"

// Config is built once at startup and never mutated afterwards.
type Config struct {
	LLM    LLMConfig    `yaml:"llm"`
	Server ServerConfig `yaml:"server"`
	Logger LoggerConfig `yaml:"logger"`
	Tracer TracerConfig `yaml:"tracer"`
}

// LLMConfig describes the upstream completion API.
type LLMConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"` // empty means the provider default
	Model   string `yaml:"model"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

type TracerConfig struct {
	Enabled bool `yaml:"enabled"`
}

func Defaults() Config {
	return Config{
		LLM:    LLMConfig{Model: DefaultModel},
		Server: ServerConfig{Addr: ":8100", StaticDir: "web"},
		Logger: LoggerConfig{Level: "info", Format: "json"},
	}
}

// Load applies, in order: defaults, the YAML file at path (optional), a .env
// file in the working directory (optional) and environment overrides.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// .env never overrides variables already present in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	ApplyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LINGOPAD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LINGOPAD_LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("LINGOPAD_TRACING"); v != "" {
		cfg.Tracer.Enabled = v == "true" || v == "1"
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server.addr is required")
	}
	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: unknown logger.level %q", c.Logger.Level)
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel
	}
	return nil
}

// HasCredential reports whether an upstream API key is configured.
func (c LLMConfig) HasCredential() bool {
	return c.APIKey != ""
}
