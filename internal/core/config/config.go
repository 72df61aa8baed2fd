// Package config provides configuration management for riskgate services.
package config

import (
	"os"
	"time"
)

// RulesAPIConfig holds configuration for the rules HTTP API service.
type RulesAPIConfig struct {
	Host           string
	Port           int
	RequestTimeout time.Duration
	DatabaseURL    string
	EvalWorkers    int
	RuleCacheTTL   time.Duration
	OpenAIModel    string
	OpenAIBaseURL  string
}

// DefaultRulesAPIConfig returns configuration with default values.
func DefaultRulesAPIConfig() *RulesAPIConfig {
	return &RulesAPIConfig{
		Host:           "0.0.0.0",
		Port:           8080,
		RequestTimeout: 30 * time.Second,
		DatabaseURL:    "sqlite://riskgate.db",
		EvalWorkers:    8,
		RuleCacheTTL:   30 * time.Second,
		OpenAIModel:    "gpt-4o",
		OpenAIBaseURL:  "",
	}
}

// OpenAIKey returns the OpenAI API key from the environment.
// Secrets are environment-only; config files never carry them.
// RG_OPENAI_API_KEY takes precedence over the conventional OPENAI_API_KEY.
// Empty means no generator is configured and draft endpoints are disabled.
func OpenAIKey() string {
	if key := os.Getenv("RG_OPENAI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("OPENAI_API_KEY")
}
