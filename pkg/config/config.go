package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultModelPath is the pretrained GoogleNews model, relative to the working directory.
const DefaultModelPath = "GoogleNews-vectors-negative300.bin.gz"

// Config holds all application configuration. Values come from an optional
// YAML file first and are then overridden by environment variables.
type Config struct {
	// Server
	Port     string `yaml:"port"`
	AppName  string `yaml:"app_name"`
	LogLevel string `yaml:"log_level"`

	// Model
	ModelPath   string `yaml:"model_path"`
	ModelBinary bool   `yaml:"model_binary"`
	VocabLimit  int    `yaml:"vocab_limit"` // 0 = whole file

	// MCP
	MCPEnabled bool   `yaml:"mcp_enabled"`
	MCPPort    string `yaml:"mcp_port"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Port:        "5000",
		AppName:     "word2vec",
		LogLevel:    "info",
		ModelPath:   DefaultModelPath,
		ModelBinary: true,
		MCPEnabled:  false,
		MCPPort:     "5001",
	}
}

// Load reads WORD2VEC_CONFIG (if set) and then environment variables.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("WORD2VEC_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = envOrDefault("WORD2VEC_PORT", cfg.Port)
	cfg.AppName = envOrDefault("APP_NAME", cfg.AppName)
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)

	cfg.ModelPath = envOrDefault("WORD2VEC_MODEL_PATH", cfg.ModelPath)
	cfg.ModelBinary = envOrDefaultBool("WORD2VEC_BINARY", cfg.ModelBinary)
	cfg.VocabLimit = envOrDefaultInt("WORD2VEC_VOCAB_LIMIT", cfg.VocabLimit)

	cfg.MCPEnabled = envOrDefaultBool("MCP_ENABLED", cfg.MCPEnabled)
	cfg.MCPPort = envOrDefault("MCP_PORT", cfg.MCPPort)

	return cfg, nil
}

// mergeFile overlays values from a YAML file. A missing file is not an error.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}
