package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the full application configuration
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Vision    VisionConfig    `yaml:"vision"`
	Matching  MatchingConfig  `yaml:"matching"`
	Agent     AgentConfig     `yaml:"agent"`
}

// DatabaseConfig contains SQLite settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// EmbeddingConfig contains text embedding provider settings
type EmbeddingConfig struct {
	Primary  ProviderConfig `yaml:"primary"`
	Fallback ProviderConfig `yaml:"fallback"`
}

// ProviderConfig contains settings for an embedding provider
type ProviderConfig struct {
	Provider   string `yaml:"provider"` // "gemini" or "openai"
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	Dimensions int    `yaml:"dimensions"`
}

// VisionConfig contains vision encoder sidecar settings
type VisionConfig struct {
	URL            string `yaml:"url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// MatchingConfig contains scoring and ranking settings
type MatchingConfig struct {
	MatchThreshold        float64 `yaml:"match_threshold"`
	NotificationThreshold float64 `yaml:"notification_threshold"`
	TopK                  int     `yaml:"top_k"`
	CandidatePoolSize     int     `yaml:"candidate_pool_size"`
}

// AgentConfig contains agent loop settings
type AgentConfig struct {
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
	ObserveBatchSize    int `yaml:"observe_batch_size"`
}

// Load reads and parses config from the given path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	expandConfigEnvVars(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// FindConfigPath looks for config in common locations
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	paths := []string{
		"findora.yaml",
		"findora.yml",
		".findora.yaml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, ".config", "findora", "config.yaml")
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}

	return ""
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/findora.db"
	}
	if cfg.Matching.MatchThreshold == 0 {
		cfg.Matching.MatchThreshold = 0.6
	}
	if cfg.Matching.NotificationThreshold == 0 {
		cfg.Matching.NotificationThreshold = 0.8
	}
	if cfg.Matching.TopK == 0 {
		cfg.Matching.TopK = 5
	}
	if cfg.Matching.CandidatePoolSize == 0 {
		cfg.Matching.CandidatePoolSize = 100
	}
	if cfg.Agent.PollIntervalSeconds == 0 {
		cfg.Agent.PollIntervalSeconds = 30
	}
	if cfg.Agent.ObserveBatchSize == 0 {
		cfg.Agent.ObserveBatchSize = 50
	}
	if cfg.Embedding.Primary.Dimensions == 0 {
		cfg.Embedding.Primary.Dimensions = 384
	}
	if cfg.Embedding.Fallback.Dimensions == 0 {
		cfg.Embedding.Fallback.Dimensions = 384
	}
	if cfg.Vision.Model == "" {
		cfg.Vision.Model = "mobilenet-v3-small"
	}
	if cfg.Vision.TimeoutSeconds == 0 {
		cfg.Vision.TimeoutSeconds = 60
	}
}
