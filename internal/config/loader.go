package config

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	defaultConfigName = "config"
	defaultConfigType = "yaml"
)

// loadConfig loads the configuration from environment variables and files.
// Priority order (highest to lowest):
// 1. Environment variables (OPENAI_API_KEY, SNOWFLAKE_ACCOUNT, ...)
// 2. config.yaml - fallback for local development
// 3. Default values
func loadConfig(configPath string) (*Configuration, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure Viper
	v.SetConfigName(defaultConfigName)
	v.SetConfigType(defaultConfigType)

	// Add config search paths
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/moodle-augment")
		v.AddConfigPath("$HOME/.moodle-augment")
	}

	// Bind the environment variable names the services have always been
	// deployed with, so existing setups keep working unchanged.
	bindEnvKeys(v)

	// Read configuration file (fallback only)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, &ConfigError{
				Op:  "read",
				Err: fmt.Errorf("failed to read config file: %w", err),
			}
		}
		// Config file not found is OK - env vars and defaults carry the
		// standard deployment.
	}

	// Unmarshal configuration
	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{
			Op:  "unmarshal",
			Err: fmt.Errorf("failed to unmarshal config: %w", err),
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Credential keys default to
// empty strings so Viper registers them and the env bindings survive Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.chat_port", 8000)
	v.SetDefault("server.question_port", 8001)
	v.SetDefault("server.read_timeout_seconds", 30)
	v.SetDefault("server.write_timeout_seconds", 90)
	v.SetDefault("server.shutdown_timeout_seconds", 15)

	// Provider defaults
	v.SetDefault("providers.timeout_seconds", 30)
	v.SetDefault("providers.openai.api_key", "")
	v.SetDefault("providers.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("providers.gemini.api_key", "")
	v.SetDefault("providers.gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("providers.deepseek.api_key", "")
	v.SetDefault("providers.deepseek.base_url", "https://api.deepseek.com/v1")
	v.SetDefault("providers.snowflake.account", "")
	v.SetDefault("providers.snowflake.user", "")
	v.SetDefault("providers.snowflake.password", "")
	v.SetDefault("providers.snowflake.warehouse", "")
	v.SetDefault("providers.snowflake.database", "")
	v.SetDefault("providers.snowflake.schema", "")

	// Upload defaults
	v.SetDefault("upload.max_file_size", 10*1024*1024)

	// CORS defaults
	v.SetDefault("cors.origins", "*")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvKeys maps configuration keys to their environment variable names.
func bindEnvKeys(v *viper.Viper) {
	bindings := map[string]string{
		"server.host":                   "HOST",
		"server.chat_port":              "CHAT_PORT",
		"server.question_port":          "QUESTION_PORT",
		"providers.timeout_seconds":     "PROVIDER_TIMEOUT_SECONDS",
		"providers.openai.api_key":      "OPENAI_API_KEY",
		"providers.openai.base_url":     "OPENAI_BASE_URL",
		"providers.gemini.api_key":      "GEMINI_API_KEY",
		"providers.gemini.base_url":     "GEMINI_BASE_URL",
		"providers.deepseek.api_key":    "DEEPSEEK_API_KEY",
		"providers.deepseek.base_url":   "DEEPSEEK_BASE_URL",
		"providers.snowflake.account":   "SNOWFLAKE_ACCOUNT",
		"providers.snowflake.user":      "SNOWFLAKE_USER",
		"providers.snowflake.password":  "SNOWFLAKE_PASSWORD",
		"providers.snowflake.warehouse": "SNOWFLAKE_WAREHOUSE",
		"providers.snowflake.database":  "SNOWFLAKE_DATABASE",
		"providers.snowflake.schema":    "SNOWFLAKE_SCHEMA",
		"upload.max_file_size":          "MAX_FILE_SIZE",
		"cors.origins":                  "CORS_ORIGINS",
		"logging.level":                 "LOG_LEVEL",
		"logging.format":                "LOG_FORMAT",
	}

	for key, env := range bindings {
		_ = v.BindEnv(key, env)
	}
}
