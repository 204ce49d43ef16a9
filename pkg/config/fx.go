package config

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/fx"

	"aichannel/pkg/logger"
)

// Module provides configuration for fx dependency injection.
// Supply a Path value to choose the config file; empty means search defaults.
var Module = fx.Module("config",
	fx.Provide(ProvideLoader),
	fx.Provide(ProvideConfig),
	fx.Provide(ProvideLoggerConfig),
)

// Path is the config file path given on the command line.
type Path string

// ProvideLoader provides a configuration loader.
func ProvideLoader() *Loader {
	return NewLoader()
}

// ProvideConfig loads, resolves secrets for, and validates the configuration.
// A validation failure aborts fx startup.
func ProvideConfig(loader *Loader, path Path) (*Config, error) {
	cfg, err := loader.Load(string(path))
	if err != nil {
		return nil, err
	}

	if cfg.Secrets.SSMPrefix != "" {
		ctx := context.Background()
		opts := []func(*awsconfig.LoadOptions) error{}
		if cfg.Secrets.Region != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.Secrets.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		store, err := NewParameterStore(ssm.NewFromConfig(awsCfg))
		if err != nil {
			return nil, err
		}
		if err := ResolveSecrets(ctx, cfg, store); err != nil {
			return nil, err
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ProvideLoggerConfig exposes the logger section to the logger module.
func ProvideLoggerConfig(cfg *Config) *logger.Config {
	return cfg.Logger.ToLoggerConfig()
}
