// Package config provides configuration management using the Singleton pattern.
// It loads configuration from environment variables and config.yaml using Viper.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sanjeev23oct/moodle-augment-2/internal/domain"
)

// Configuration holds all application configuration values.
type Configuration struct {
	// Server configuration
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Providers configuration (credentials and endpoints per backend)
	Providers ProvidersConfig `json:"providers" mapstructure:"providers"`

	// Upload configuration
	Upload UploadConfig `json:"upload" mapstructure:"upload"`

	// CORS configuration
	CORS CORSConfig `json:"cors" mapstructure:"cors"`

	// Logging configuration
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ServerConfig holds bind addresses and HTTP timeouts for both services.
type ServerConfig struct {
	// Host is the bind address shared by both services.
	Host string `json:"host" mapstructure:"host"`

	// ChatPort is the chat service port number.
	ChatPort int `json:"chat_port" mapstructure:"chat_port"`

	// QuestionPort is the question service port number.
	QuestionPort int `json:"question_port" mapstructure:"question_port"`

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeoutSeconds int `json:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must leave room for one full upstream call.
	WriteTimeoutSeconds int `json:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`

	// ShutdownTimeout is the maximum duration to wait for active connections to finish.
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" mapstructure:"shutdown_timeout_seconds"`
}

// ProvidersConfig groups per-backend credentials and endpoints.
type ProvidersConfig struct {
	OpenAI    OpenAIConfig    `json:"openai" mapstructure:"openai"`
	Gemini    GeminiConfig    `json:"gemini" mapstructure:"gemini"`
	Snowflake SnowflakeConfig `json:"snowflake" mapstructure:"snowflake"`
	DeepSeek  DeepSeekConfig  `json:"deepseek" mapstructure:"deepseek"`

	// TimeoutSeconds bounds every outbound provider call.
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// OpenAIConfig holds OpenAI credentials and endpoint.
type OpenAIConfig struct {
	APIKey  string `json:"api_key" mapstructure:"api_key"`
	BaseURL string `json:"base_url" mapstructure:"base_url"`
}

// Configured reports whether the OpenAI adapter has the credentials it needs.
func (c OpenAIConfig) Configured() bool {
	return c.APIKey != ""
}

// GeminiConfig holds Gemini credentials and endpoint.
type GeminiConfig struct {
	APIKey  string `json:"api_key" mapstructure:"api_key"`
	BaseURL string `json:"base_url" mapstructure:"base_url"`
}

// Configured reports whether the Gemini adapter has the credentials it needs.
func (c GeminiConfig) Configured() bool {
	return c.APIKey != ""
}

// DeepSeekConfig holds DeepSeek credentials and endpoint.
type DeepSeekConfig struct {
	APIKey  string `json:"api_key" mapstructure:"api_key"`
	BaseURL string `json:"base_url" mapstructure:"base_url"`
}

// Configured reports whether the DeepSeek adapter has the credentials it needs.
func (c DeepSeekConfig) Configured() bool {
	return c.APIKey != ""
}

// SnowflakeConfig holds the six Snowflake Cortex credential fields.
type SnowflakeConfig struct {
	Account   string `json:"account" mapstructure:"account"`
	User      string `json:"user" mapstructure:"user"`
	Password  string `json:"password" mapstructure:"password"`
	Warehouse string `json:"warehouse" mapstructure:"warehouse"`
	Database  string `json:"database" mapstructure:"database"`
	Schema    string `json:"schema" mapstructure:"schema"`
}

// Configured reports whether every Snowflake credential field is present.
func (c SnowflakeConfig) Configured() bool {
	return c.Account != "" && c.User != "" && c.Password != "" &&
		c.Warehouse != "" && c.Database != "" && c.Schema != ""
}

// Available reports whether the given provider has the credentials needed to
// operate. Pure function over configuration; no network access. Every adapter
// uses this as its precondition before building a request.
func (p ProvidersConfig) Available(t domain.ProviderType) bool {
	switch t {
	case domain.ProviderOpenAI:
		return p.OpenAI.Configured()
	case domain.ProviderGemini:
		return p.Gemini.Configured()
	case domain.ProviderSnowflake:
		return p.Snowflake.Configured()
	case domain.ProviderDeepSeek:
		return p.DeepSeek.Configured()
	default:
		return false
	}
}

// Availability returns the provider readiness map for a service's provider
// set, as reported by the health endpoint.
func (p ProvidersConfig) Availability(set []domain.ProviderType) map[string]bool {
	out := make(map[string]bool, len(set))
	for _, t := range set {
		out[t.String()] = p.Available(t)
	}
	return out
}

// UploadConfig holds document upload limits.
type UploadConfig struct {
	// MaxFileSize is the upload cap in bytes.
	MaxFileSize int64 `json:"max_file_size" mapstructure:"max_file_size"`
}

// CORSConfig holds cross-origin configuration.
type CORSConfig struct {
	// Origins is the comma-separated list of permitted origins ("*" for any).
	Origins string `json:"origins" mapstructure:"origins"`
}

// OriginList returns the configured origins split and trimmed.
func (c CORSConfig) OriginList() []string {
	parts := strings.Split(c.Origins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	// Python-style aliases (warning, critical) are accepted.
	Level string `json:"level" mapstructure:"level"`

	// Format is the log format (json, text).
	Format string `json:"format" mapstructure:"format"`
}

// SlogLevel converts the configured level name to a slog.Level.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "critical":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// configInstance holds the singleton configuration instance.
var (
	configInstance *Configuration
	configOnce     sync.Once
	configErr      error
)

// GetConfig returns the singleton Configuration instance.
// It initializes the configuration on first call using the default config path.
// Returns an error if configuration loading fails.
func GetConfig() (*Configuration, error) {
	configOnce.Do(func() {
		configInstance, configErr = loadConfig("")
	})
	return configInstance, configErr
}

// GetConfigWithPath returns the singleton Configuration instance with a custom config path.
// This should be used when you need to specify a non-default configuration file path.
// Returns an error if configuration loading fails.
func GetConfigWithPath(configPath string) (*Configuration, error) {
	configOnce.Do(func() {
		configInstance, configErr = loadConfig(configPath)
	})
	return configInstance, configErr
}

// MustGetConfig returns the singleton Configuration instance.
// It panics if the configuration cannot be loaded.
func MustGetConfig() *Configuration {
	cfg, err := GetConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// ResetConfig resets the singleton instance.
// This is primarily used for testing purposes.
func ResetConfig() {
	configOnce = sync.Once{}
	configInstance = nil
	configErr = nil
}

// Validate validates the configuration and returns an error if values are out
// of range. Missing provider credentials are not validation errors: providers
// are optional and availability simply reflects their absence.
func (c *Configuration) Validate() error {
	var validationErrors []string

	if c.Server.ChatPort <= 0 || c.Server.ChatPort > 65535 {
		validationErrors = append(validationErrors, "server.chat_port must be between 1 and 65535")
	}

	if c.Server.QuestionPort <= 0 || c.Server.QuestionPort > 65535 {
		validationErrors = append(validationErrors, "server.question_port must be between 1 and 65535")
	}

	if c.Providers.TimeoutSeconds <= 0 {
		validationErrors = append(validationErrors, "providers.timeout_seconds must be positive")
	}

	if c.Providers.OpenAI.BaseURL == "" {
		validationErrors = append(validationErrors, "providers.openai.base_url is required")
	}

	if c.Providers.Gemini.BaseURL == "" {
		validationErrors = append(validationErrors, "providers.gemini.base_url is required")
	}

	if c.Providers.DeepSeek.BaseURL == "" {
		validationErrors = append(validationErrors, "providers.deepseek.base_url is required")
	}

	if c.Upload.MaxFileSize <= 0 {
		validationErrors = append(validationErrors, "upload.max_file_size must be positive")
	}

	if c.Logging.Level != "" && !isValidLogLevel(c.Logging.Level) {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.level '%s' is invalid, must be one of: debug, info, warn, error",
			c.Logging.Level,
		))
	}

	if len(validationErrors) > 0 {
		return &ValidationError{Errors: validationErrors}
	}

	return nil
}

// isValidLogLevel checks if the log level is valid.
func isValidLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error", "critical":
		return true
	default:
		return false
	}
}
