package bindings

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"aichannel/pkg/logger"
)

// RedisStore keeps bindings in a single Redis hash keyed by guild id.
type RedisStore struct {
	log    *logger.Logger
	client *redis.Client
	key    string
}

// RedisStoreConfig configures the Redis store.
type RedisStoreConfig struct {
	Addr     string // Redis address (host:port)
	Password string // Redis password
	DB       int    // Redis database number
	Prefix   string // Key prefix for namespacing
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, log *logger.Logger, cfg *RedisStoreConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	log.Info("Connected to Redis",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
		zap.String("prefix", cfg.Prefix))

	return newRedisStoreWithClient(log, client, cfg.Prefix), nil
}

func newRedisStoreWithClient(log *logger.Logger, client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "aichannel:"
	}
	return &RedisStore{
		log:    log,
		client: client,
		key:    prefix + "bindings",
	}
}

// Get returns the bound channel for a guild.
func (s *RedisStore) Get(ctx context.Context, guildID string) (string, bool, error) {
	val, err := s.client.HGet(ctx, s.key, guildID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget: %w", err)
	}
	return val, val != "", nil
}

// Set binds channelID to guildID.
func (s *RedisStore) Set(ctx context.Context, guildID, channelID string) error {
	if err := validID(guildID, channelID); err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.key, guildID, channelID).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

// Remove deletes the binding for guildID.
func (s *RedisStore) Remove(ctx context.Context, guildID string) (bool, error) {
	n, err := s.client.HDel(ctx, s.key, guildID).Result()
	if err != nil {
		return false, fmt.Errorf("redis hdel: %w", err)
	}
	return n > 0, nil
}

// All returns every binding.
func (s *RedisStore) All(ctx context.Context) (map[string]string, error) {
	all, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	return all, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
