package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variable names.
const (
	ConfigPathEnv = "AICHANNEL_CONFIG_FILE"
	DiscordEnv    = "DISCORD_TOKEN"
	TogetherEnv   = "TOGETHER_API_KEY"
)

// Loader handles configuration loading with Viper.
type Loader struct {
	viper   *viper.Viper
	envFile string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetConfigName("config")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".aichannel"))
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("AICHANNEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The bare names are what deployments have always exported.
	_ = v.BindEnv("discord.token", "AICHANNEL_DISCORD_TOKEN", DiscordEnv)
	_ = v.BindEnv("completion.api_key", "AICHANNEL_COMPLETION_API_KEY", TogetherEnv)

	setDefaults(v, DefaultConfig())

	return &Loader{viper: v, envFile: ".env"}
}

// WithEnvFile overrides the dotenv file read before loading. Empty disables it.
func (l *Loader) WithEnvFile(path string) *Loader {
	l.envFile = path
	return l
}

// Load loads the configuration from file and environment variables.
// If configPath is empty, AICHANNEL_CONFIG_FILE and then the default search
// paths are tried. A missing config file is not an error unless the path was
// given explicitly: all settings have defaults or come from the environment.
func (l *Loader) Load(configPath string) (*Config, error) {
	if l.envFile != "" {
		if err := godotenv.Load(l.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", l.envFile, err)
		}
	}

	if strings.TrimSpace(configPath) == "" {
		configPath = strings.TrimSpace(os.Getenv(ConfigPathEnv))
	}

	if configPath != "" {
		l.viper.SetConfigFile(configPath)
	}

	if err := l.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := l.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Discord.Token = strings.TrimSpace(cfg.Discord.Token)
	cfg.Completion.APIKey = strings.TrimSpace(cfg.Completion.APIKey)

	return cfg, nil
}

// ConfigFileUsed returns the path of the loaded config file, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.viper.ConfigFileUsed()
}

// setDefaults registers every key with viper so AutomaticEnv can override
// values that are absent from the config file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.command_prefix", cfg.Discord.CommandPrefix)
	v.SetDefault("discord.sync_commands", cfg.Discord.SyncCommands)

	v.SetDefault("completion.api_key", "")
	v.SetDefault("completion.api_base", cfg.Completion.APIBase)
	v.SetDefault("completion.model", cfg.Completion.Model)
	v.SetDefault("completion.max_tokens", cfg.Completion.MaxTokens)
	v.SetDefault("completion.persona", cfg.Completion.Persona)
	v.SetDefault("completion.timeout_seconds", cfg.Completion.TimeoutSeconds)

	v.SetDefault("store.backend", cfg.Store.Backend)
	v.SetDefault("store.file_path", cfg.Store.FilePath)
	v.SetDefault("store.atomic_write", cfg.Store.AtomicWrite)
	v.SetDefault("store.redis.addr", cfg.Store.Redis.Addr)
	v.SetDefault("store.redis.password", cfg.Store.Redis.Password)
	v.SetDefault("store.redis.db", cfg.Store.Redis.DB)
	v.SetDefault("store.redis.prefix", cfg.Store.Redis.Prefix)
	v.SetDefault("store.dynamodb.table", cfg.Store.DynamoDB.Table)
	v.SetDefault("store.dynamodb.region", cfg.Store.DynamoDB.Region)
	v.SetDefault("store.dynamodb.endpoint", cfg.Store.DynamoDB.Endpoint)

	v.SetDefault("secrets.ssm_prefix", cfg.Secrets.SSMPrefix)
	v.SetDefault("secrets.region", cfg.Secrets.Region)

	v.SetDefault("logger.level", cfg.Logger.Level)
	v.SetDefault("logger.output_path", cfg.Logger.OutputPath)
	v.SetDefault("logger.max_size", cfg.Logger.MaxSize)
	v.SetDefault("logger.max_backups", cfg.Logger.MaxBackups)
	v.SetDefault("logger.max_age", cfg.Logger.MaxAge)
	v.SetDefault("logger.compress", cfg.Logger.Compress)
	v.SetDefault("logger.development", cfg.Logger.Development)

	v.SetDefault("status.host", cfg.Status.Host)
	v.SetDefault("status.port", cfg.Status.Port)
}
