// Package config loads client configuration from a YAML file with
// environment-variable overrides. Credentials never live in the file; they
// come from the environment (optionally via a .env file loaded with
// godotenv in the calling program).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variable names recognised by FromEnv and ApplyEnv.
const (
	EnvEndpoint        = "BEDROCKGATE_ENDPOINT"
	EnvCompletionModel = "BEDROCKGATE_COMPLETION_MODEL"
	EnvChatModel       = "BEDROCKGATE_CHAT_MODEL"
	EnvEmbeddingModel  = "BEDROCKGATE_EMBEDDING_MODEL"
)

// Config holds the per-client settings: where the managed endpoint lives,
// which model ID serves each operation, and the instance-level sampling
// defaults merged into every call.
type Config struct {
	Endpoint        string   `yaml:"endpoint"`
	CompletionModel string   `yaml:"completion_model"`
	ChatModel       string   `yaml:"chat_model"`
	EmbeddingModel  string   `yaml:"embedding_model"`
	Defaults        Defaults `yaml:"defaults"`
}

// Defaults carries the instance-level canonical sampling defaults. Pointer
// fields distinguish "unset" from an explicit zero, mirroring the canonical
// parameter struct.
type Defaults struct {
	MaxTokens     int      `yaml:"max_tokens"`
	Temperature   *float64 `yaml:"temperature"`
	TopP          *float64 `yaml:"top_p"`
	TopK          *int     `yaml:"top_k"`
	StopSequences []string `yaml:"stop"`
}

// Load reads YAML configuration from disk, applies environment overrides,
// and validates the result.
func Load(path string) (Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("resolve config path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %q: %w", absPath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %q: %w", absPath, err)
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv builds a configuration from environment variables alone, for
// programs that carry no config file.
func FromEnv() (Config, error) {
	var cfg Config
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overlays recognised environment variables onto cfg. Set variables
// win over file values; unset variables leave the file values in place.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvCompletionModel); v != "" {
		c.CompletionModel = v
	}
	if v := os.Getenv(EnvChatModel); v != "" {
		c.ChatModel = v
	}
	if v := os.Getenv(EnvEmbeddingModel); v != "" {
		c.EmbeddingModel = v
	}
}

// Validate performs sanity checks on the configuration. At least one model ID
// must be configured; the endpoint is always required.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("config: endpoint must be provided (file or %s)", EnvEndpoint)
	}
	if c.CompletionModel == "" && c.ChatModel == "" && c.EmbeddingModel == "" {
		return fmt.Errorf("config: at least one of completion_model, chat_model or embedding_model must be configured")
	}
	return nil
}
