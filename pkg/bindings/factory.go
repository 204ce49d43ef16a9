package bindings

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"aichannel/pkg/config"
	"aichannel/pkg/logger"
)

// New creates a binding store based on configuration.
func New(ctx context.Context, log *logger.Logger, cfg *config.Config) (Store, error) {
	backend := BackendType(strings.ToLower(strings.TrimSpace(cfg.Store.Backend)))
	if backend == "" {
		backend = BackendFile
	}

	switch backend {
	case BackendFile:
		return NewFileStore(log, &FileStoreConfig{
			FilePath:    cfg.StoreFilePath(),
			AtomicWrite: cfg.Store.AtomicWrite,
		})

	case BackendRedis:
		if cfg.Store.Redis.Addr == "" {
			return nil, fmt.Errorf("redis address is required")
		}
		return NewRedisStore(ctx, log, &RedisStoreConfig{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			Prefix:   cfg.Store.Redis.Prefix,
		})

	case BackendDynamoDB:
		dcfg := cfg.Store.DynamoDB
		opts := []func(*awsconfig.LoadOptions) error{}
		if dcfg.Region != "" {
			opts = append(opts, awsconfig.WithRegion(dcfg.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if dcfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(dcfg.Endpoint)
			}
		})
		return NewDynamoDBStore(log, client, dcfg.Table)

	default:
		return nil, fmt.Errorf("unknown backend type: %s", backend)
	}
}
