// Package bindings persists the per-guild AI channel binding: at most one
// channel id per guild id. Absent entries mean the feature is inactive for
// that guild.
package bindings

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Store is the guild -> channel binding store.
type Store interface {
	// Get returns the bound channel for a guild.
	Get(ctx context.Context, guildID string) (channelID string, ok bool, err error)

	// Set binds channelID to guildID, overwriting any previous binding.
	Set(ctx context.Context, guildID, channelID string) error

	// Remove deletes the binding and reports whether one existed.
	Remove(ctx context.Context, guildID string) (bool, error)

	// All returns a copy of every binding.
	All(ctx context.Context) (map[string]string, error)

	// Close releases backend resources.
	Close() error
}

// BackendType represents the storage backend type.
type BackendType string

const (
	BackendFile     BackendType = "file"
	BackendRedis    BackendType = "redis"
	BackendDynamoDB BackendType = "dynamodb"
)

// ErrInvalidID is returned for empty guild or channel ids.
var ErrInvalidID = errors.New("bindings: guild and channel ids must not be empty")

func validID(ids ...string) error {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return ErrInvalidID
		}
	}
	return nil
}

// channelString normalises a persisted channel id. Files written by older
// deployments hold numeric snowflakes.
func channelString(v interface{}) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, id != ""
	case json.Number:
		return id.String(), true
	default:
		return "", false
	}
}

