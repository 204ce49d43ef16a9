package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ssmAPI is the minimal AWS SSM interface required for secret lookup.
// *ssm.Client satisfies it.
type ssmAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ParameterStore reads decrypted values from SSM Parameter Store.
type ParameterStore struct {
	api ssmAPI
}

// NewParameterStore wraps an SSM API implementation.
func NewParameterStore(api ssmAPI) (*ParameterStore, error) {
	if api == nil {
		return nil, errors.New("paramstore: api must not be nil")
	}
	return &ParameterStore{api: api}, nil
}

// GetParameter returns the decrypted value of a single parameter.
func (p *ParameterStore) GetParameter(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("paramstore: name is required")
	}

	withDecryption := true
	out, err := p.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &name,
		WithDecryption: &withDecryption,
	})
	if err != nil {
		return "", fmt.Errorf("paramstore: get parameter %q: %w", name, err)
	}
	if out == nil || out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("paramstore: parameter %q missing value", name)
	}
	return *out.Parameter.Value, nil
}

// ResolveSecrets fills empty secrets from <prefix>/DISCORD_TOKEN and
// <prefix>/TOGETHER_API_KEY. Values already present (env, file) win.
func ResolveSecrets(ctx context.Context, cfg *Config, store *ParameterStore) error {
	prefix := strings.TrimRight(strings.TrimSpace(cfg.Secrets.SSMPrefix), "/")
	if prefix == "" || store == nil {
		return nil
	}

	targets := []struct {
		name string
		dst  *string
	}{
		{DiscordEnv, &cfg.Discord.Token},
		{TogetherEnv, &cfg.Completion.APIKey},
	}

	for _, t := range targets {
		if *t.dst != "" {
			continue
		}
		value, err := store.GetParameter(ctx, prefix+"/"+t.name)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", t.name, err)
		}
		*t.dst = strings.TrimSpace(value)
	}
	return nil
}
