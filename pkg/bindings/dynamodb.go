package bindings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"aichannel/pkg/logger"
)

const (
	attrGuildID   = "guild_id"
	attrChannelID = "channel_id"
)

// dynamodbAPI is the minimal DynamoDB interface required by DynamoDBStore.
// *dynamodb.Client satisfies it.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoDBStore keeps one item per guild: partition key guild_id (S) and a
// channel_id (S) attribute.
type DynamoDBStore struct {
	log       *logger.Logger
	api       dynamodbAPI
	tableName string
}

// NewDynamoDBStore wraps a DynamoDB table.
func NewDynamoDBStore(log *logger.Logger, api dynamodbAPI, tableName string) (*DynamoDBStore, error) {
	if api == nil {
		return nil, errors.New("bindings: dynamodb api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("bindings: dynamodb table name must not be empty")
	}
	return &DynamoDBStore{log: log, api: api, tableName: tableName}, nil
}

func guildKey(guildID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrGuildID: &types.AttributeValueMemberS{Value: guildID},
	}
}

// Get returns the bound channel for a guild.
func (s *DynamoDBStore) Get(ctx context.Context, guildID string) (string, bool, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            guildKey(guildID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", false, fmt.Errorf("dynamodb get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return "", false, nil
	}
	return stringAttr(out.Item, attrChannelID)
}

// Set binds channelID to guildID.
func (s *DynamoDBStore) Set(ctx context.Context, guildID, channelID string) error {
	if err := validID(guildID, channelID); err != nil {
		return err
	}
	_, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			attrGuildID:   &types.AttributeValueMemberS{Value: guildID},
			attrChannelID: &types.AttributeValueMemberS{Value: channelID},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb put item: %w", err)
	}
	return nil
}

// Remove deletes the binding for guildID.
func (s *DynamoDBStore) Remove(ctx context.Context, guildID string) (bool, error) {
	out, err := s.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.tableName),
		Key:          guildKey(guildID),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, fmt.Errorf("dynamodb delete item: %w", err)
	}
	return out != nil && len(out.Attributes) > 0, nil
}

// All scans the table.
func (s *DynamoDBStore) All(ctx context.Context) (map[string]string, error) {
	result := make(map[string]string)
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.api.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("dynamodb scan: %w", err)
		}
		for _, item := range out.Items {
			guildID, ok, _ := stringAttr(item, attrGuildID)
			if !ok {
				continue
			}
			if channelID, ok, _ := stringAttr(item, attrChannelID); ok {
				result[guildID] = channelID
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			return result, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// Close is a no-op; the SDK client has no connection to release.
func (s *DynamoDBStore) Close() error {
	return nil
}

func stringAttr(item map[string]types.AttributeValue, name string) (string, bool, error) {
	switch v := item[name].(type) {
	case nil:
		return "", false, nil
	case *types.AttributeValueMemberS:
		return v.Value, v.Value != "", nil
	case *types.AttributeValueMemberN:
		return v.Value, v.Value != "", nil
	default:
		return "", false, fmt.Errorf("dynamodb: attribute %s has unexpected type %T", name, v)
	}
}
