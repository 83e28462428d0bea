package config

import "fmt"

// Validate checks config for problems and returns all errors found
func Validate(cfg *Config) []error {
	var errs []error

	if cfg.Embedding.Primary.Provider == "" {
		errs = append(errs, fmt.Errorf("embedding.primary.provider is required"))
	} else if !knownProvider(cfg.Embedding.Primary.Provider) {
		errs = append(errs, fmt.Errorf("embedding.primary.provider %q is not supported (use \"openai\" or \"gemini\")", cfg.Embedding.Primary.Provider))
	}

	if cfg.Embedding.Fallback.Provider != "" && !knownProvider(cfg.Embedding.Fallback.Provider) {
		errs = append(errs, fmt.Errorf("embedding.fallback.provider %q is not supported (use \"openai\" or \"gemini\")", cfg.Embedding.Fallback.Provider))
	}

	if cfg.Embedding.Primary.APIKey == "" {
		errs = append(errs, fmt.Errorf("embedding.primary.api_key is required (use ${ENV_VAR} to read from the environment)"))
	}

	if cfg.Vision.URL == "" {
		errs = append(errs, fmt.Errorf("vision.url is required"))
	}

	if t := cfg.Matching.MatchThreshold; t <= 0 || t > 1 {
		errs = append(errs, fmt.Errorf("matching.match_threshold must be in (0, 1], got %v", t))
	}
	if t := cfg.Matching.NotificationThreshold; t <= 0 || t > 1 {
		errs = append(errs, fmt.Errorf("matching.notification_threshold must be in (0, 1], got %v", t))
	}
	if cfg.Matching.NotificationThreshold < cfg.Matching.MatchThreshold {
		errs = append(errs, fmt.Errorf("matching.notification_threshold (%v) must not be below matching.match_threshold (%v)",
			cfg.Matching.NotificationThreshold, cfg.Matching.MatchThreshold))
	}

	if cfg.Matching.TopK < 1 {
		errs = append(errs, fmt.Errorf("matching.top_k must be at least 1, got %d", cfg.Matching.TopK))
	}
	if cfg.Matching.CandidatePoolSize < 1 {
		errs = append(errs, fmt.Errorf("matching.candidate_pool_size must be at least 1, got %d", cfg.Matching.CandidatePoolSize))
	}
	if cfg.Agent.PollIntervalSeconds < 1 {
		errs = append(errs, fmt.Errorf("agent.poll_interval_seconds must be at least 1, got %d", cfg.Agent.PollIntervalSeconds))
	}
	if cfg.Agent.ObserveBatchSize < 1 {
		errs = append(errs, fmt.Errorf("agent.observe_batch_size must be at least 1, got %d", cfg.Agent.ObserveBatchSize))
	}

	return errs
}

func knownProvider(name string) bool {
	return name == "openai" || name == "gemini"
}
