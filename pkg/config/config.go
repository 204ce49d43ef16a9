// Package config provides configuration management for aichannel.
// It uses Viper for loading with support for:
// - JSON or YAML config files
// - Environment variables (AICHANNEL_ prefix, plus the bare secret names)
// - .env files for local development
// - Optional AWS SSM Parameter Store secrets
package config

import (
	"os"
	"path/filepath"
)

// Default values shared by the loader and DefaultConfig.
const (
	DefaultModel         = "lgai/exaone-3-5-32b-instruct"
	DefaultAPIBase       = "https://api.together.xyz/v1"
	DefaultMaxTokens     = 350
	DefaultStoreFile     = "channel_config.json"
	DefaultCommandPrefix = "!"
)

// Config represents the complete aichannel configuration.
// It is built once at startup and handed to constructors; handler code never
// reads the environment directly.
type Config struct {
	Discord    DiscordConfig    `mapstructure:"discord" json:"discord"`
	Completion CompletionConfig `mapstructure:"completion" json:"completion"`
	Store      StoreConfig      `mapstructure:"store" json:"store"`
	Secrets    SecretsConfig    `mapstructure:"secrets" json:"secrets"`
	Logger     LoggerConfig     `mapstructure:"logger" json:"logger"`
	Status     StatusConfig     `mapstructure:"status" json:"status"`
}

// DiscordConfig configures the Discord transport.
type DiscordConfig struct {
	Token         string `mapstructure:"token" json:"token"`
	CommandPrefix string `mapstructure:"command_prefix" json:"command_prefix"`
	// SyncCommands overwrites the global slash commands on connect.
	SyncCommands bool `mapstructure:"sync_commands" json:"sync_commands"`
}

// CompletionConfig configures the chat completion client.
type CompletionConfig struct {
	APIKey    string `mapstructure:"api_key" json:"api_key"`
	APIBase   string `mapstructure:"api_base" json:"api_base"`
	Model     string `mapstructure:"model" json:"model"`
	MaxTokens int    `mapstructure:"max_tokens" json:"max_tokens"`
	// Persona replaces the built-in system instruction when non-empty.
	Persona string `mapstructure:"persona" json:"persona"`
	// TimeoutSeconds bounds a single request. 0 means no client-side timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" json:"timeout_seconds"`
}

// StoreConfig selects and configures the channel binding backend.
type StoreConfig struct {
	Backend     string         `mapstructure:"backend" json:"backend"` // file, redis, dynamodb
	FilePath    string         `mapstructure:"file_path" json:"file_path"`
	AtomicWrite bool           `mapstructure:"atomic_write" json:"atomic_write"`
	Redis       RedisConfig    `mapstructure:"redis" json:"redis"`
	DynamoDB    DynamoDBConfig `mapstructure:"dynamodb" json:"dynamodb"`
}

// RedisConfig for the redis binding backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" json:"addr"`
	Password string `mapstructure:"password" json:"password"`
	DB       int    `mapstructure:"db" json:"db"`
	Prefix   string `mapstructure:"prefix" json:"prefix"`
}

// DynamoDBConfig for the dynamodb binding backend.
type DynamoDBConfig struct {
	Table    string `mapstructure:"table" json:"table"`
	Region   string `mapstructure:"region" json:"region"`
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
}

// SecretsConfig enables secret lookup in AWS SSM Parameter Store.
// Parameters are read as <ssm_prefix>/DISCORD_TOKEN and <ssm_prefix>/TOGETHER_API_KEY.
type SecretsConfig struct {
	SSMPrefix string `mapstructure:"ssm_prefix" json:"ssm_prefix"`
	Region    string `mapstructure:"region" json:"region"`
}

// LoggerConfig mirrors logger.Config in a serialisable form.
type LoggerConfig struct {
	Level       string `mapstructure:"level" json:"level"`
	OutputPath  string `mapstructure:"output_path" json:"output_path"`
	MaxSize     int    `mapstructure:"max_size" json:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" json:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" json:"max_age"`
	Compress    bool   `mapstructure:"compress" json:"compress"`
	Development bool   `mapstructure:"development" json:"development"`
}

// StatusConfig for the health/metrics HTTP server. Port 0 disables it.
type StatusConfig struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Discord: DiscordConfig{
			CommandPrefix: DefaultCommandPrefix,
			SyncCommands:  true,
		},
		Completion: CompletionConfig{
			APIBase:   DefaultAPIBase,
			Model:     DefaultModel,
			MaxTokens: DefaultMaxTokens,
		},
		Store: StoreConfig{
			Backend:  "file",
			FilePath: DefaultStoreFile,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "aichannel:",
			},
			DynamoDB: DynamoDBConfig{
				Table: "aichannel-bindings",
			},
		},
		Logger: LoggerConfig{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
		Status: StatusConfig{
			Host: "0.0.0.0",
			Port: 0,
		},
	}
}

// StoreFilePath returns the expanded binding file path.
func (c *Config) StoreFilePath() string {
	return expandPath(c.Store.FilePath)
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if len(path) > 1 && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return home
}
