package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors. It is the
// configuration error surfaced at startup; the process must not start with it.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Has reports whether a field failed validation.
func (e ValidationErrors) Has(field string) bool {
	for _, err := range e {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.errors = make(ValidationErrors, 0)

	v.validateSecrets(cfg)
	v.validateCompletion(&cfg.Completion)
	v.validateStore(&cfg.Store)
	v.validateLogger(&cfg.Logger)
	v.validateStatus(&cfg.Status)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

func (v *Validator) validateSecrets(cfg *Config) {
	if cfg.Completion.APIKey == "" {
		v.addError("completion.api_key", fmt.Sprintf("missing %s in environment", TogetherEnv))
	}
	if cfg.Discord.Token == "" {
		v.addError("discord.token", fmt.Sprintf("missing %s in environment", DiscordEnv))
	}
}

func (v *Validator) validateCompletion(cfg *CompletionConfig) {
	if strings.TrimSpace(cfg.Model) == "" {
		v.addError("completion.model", "model is required")
	}
	if cfg.MaxTokens <= 0 {
		v.addError("completion.max_tokens", "max_tokens must be positive")
	}
	if cfg.TimeoutSeconds < 0 {
		v.addError("completion.timeout_seconds", "timeout_seconds must be non-negative")
	}
	if cfg.APIBase != "" {
		u, err := url.Parse(cfg.APIBase)
		if err != nil || u.Scheme == "" || u.Host == "" {
			v.addError("completion.api_base", fmt.Sprintf("invalid URL: %q", cfg.APIBase))
		}
	}
}

func (v *Validator) validateStore(cfg *StoreConfig) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "file", "":
		if strings.TrimSpace(cfg.FilePath) == "" {
			v.addError("store.file_path", "file_path is required for the file backend")
		}
	case "redis":
		if strings.TrimSpace(cfg.Redis.Addr) == "" {
			v.addError("store.redis.addr", "addr is required for the redis backend")
		}
	case "dynamodb":
		if strings.TrimSpace(cfg.DynamoDB.Table) == "" {
			v.addError("store.dynamodb.table", "table is required for the dynamodb backend")
		}
	default:
		v.addError("store.backend", "backend must be one of: file, redis, dynamodb")
	}
}

func (v *Validator) validateLogger(cfg *LoggerConfig) {
	switch cfg.Level {
	case "", "debug", "info", "warn", "error":
	default:
		v.addError("logger.level", "level must be one of: debug, info, warn, error")
	}
}

func (v *Validator) validateStatus(cfg *StatusConfig) {
	if cfg.Port < 0 || cfg.Port > 65535 {
		v.addError("status.port", "port must be between 0 and 65535")
	}
}

// addError adds a validation error.
func (v *Validator) addError(field, message string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// ValidateConfig is a convenience function to validate a configuration.
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
