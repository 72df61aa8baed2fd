package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*RulesAPIConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultRulesAPIConfig
	v.SetDefault("rules_api.host", "0.0.0.0")
	v.SetDefault("rules_api.port", 8080)
	v.SetDefault("rules_api.request_timeout", "30s")
	v.SetDefault("rules_api.database_url", "sqlite://riskgate.db")
	v.SetDefault("rules_api.eval_workers", 8)
	v.SetDefault("rules_api.rule_cache_ttl", "30s")
	v.SetDefault("rules_api.openai_model", "gpt-4o")
	v.SetDefault("rules_api.openai_base_url", "")

	// Bind environment variables with RG_ prefix
	v.SetEnvPrefix("RG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Security check: reject secrets in config files
	// Secrets must be environment-only per 12-factor principles
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &RulesAPIConfig{
		Host:           v.GetString("rules_api.host"),
		Port:           v.GetInt("rules_api.port"),
		RequestTimeout: v.GetDuration("rules_api.request_timeout"),
		DatabaseURL:    v.GetString("rules_api.database_url"),
		EvalWorkers:    v.GetInt("rules_api.eval_workers"),
		RuleCacheTTL:   v.GetDuration("rules_api.rule_cache_ttl"),
		OpenAIModel:    v.GetString("rules_api.openai_model"),
		OpenAIBaseURL:  v.GetString("rules_api.openai_base_url"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks port range and positive values for timeout and workers.
func validateConfig(cfg *RulesAPIConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database_url must not be empty")
	}
	if cfg.EvalWorkers <= 0 {
		return fmt.Errorf("eval_workers must be positive, got %d", cfg.EvalWorkers)
	}
	if cfg.RuleCacheTTL < 0 {
		return fmt.Errorf("rule_cache_ttl must not be negative, got %v", cfg.RuleCacheTTL)
	}
	return nil
}

// validateNoSecretsInConfig enforces environment-only secrets (12-factor principle).
// InConfig inspects the config file alone; RG_OPENAI_API_KEY in the
// environment is the supported path and must not trip this check.
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.InConfig("openai_api_key") || v.InConfig("rules_api.openai_api_key") {
		return fmt.Errorf("OpenAI API keys not allowed in config files (use RG_OPENAI_API_KEY environment variable)")
	}
	return nil
}
