package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/matheusfarocha/NeuralFeedback/internal/persona"
)

// sessionItem is the DynamoDB record for one piece of session state. The
// persona batch lives at SK=PERSONAS and each conversation at SK=HISTORY#<id>.
type sessionItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Payload   string `dynamodbav:"payload"`
	ExpiresAt int64  `dynamodbav:"expiresAt"`
}

// DynamoStore keeps session state in a single DynamoDB table with TTL expiry
// on the expiresAt attribute.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

func NewDynamoStore(ctx context.Context, tableName string) (*DynamoStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &DynamoStore{
		client:    dynamodb.NewFromConfig(cfg),
		tableName: tableName,
	}, nil
}

func (d *DynamoStore) put(ctx context.Context, sid, sk string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	item := sessionItem{
		PK:        "SESSION#" + sid,
		SK:        sk,
		Payload:   string(raw),
		ExpiresAt: time.Now().Add(DefaultTTL).Unix(),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal session item: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &d.tableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("put session item: %w", err)
	}
	return nil
}

func (d *DynamoStore) get(ctx context.Context, sid, sk string, out any) (bool, error) {
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &d.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "SESSION#" + sid},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		return false, fmt.Errorf("get session item: %w", err)
	}
	if result.Item == nil {
		return false, nil
	}
	var item sessionItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return false, fmt.Errorf("unmarshal session item: %w", err)
	}
	// TTL deletion lags; treat expired rows as absent.
	if item.ExpiresAt > 0 && time.Now().Unix() > item.ExpiresAt {
		return false, nil
	}
	if err := json.Unmarshal([]byte(item.Payload), out); err != nil {
		return false, fmt.Errorf("decode payload: %w", err)
	}
	return true, nil
}

func (d *DynamoStore) Personas(ctx context.Context, sid string) ([]persona.Review, error) {
	var reviews []persona.Review
	found, err := d.get(ctx, sid, "PERSONAS", &reviews)
	if err != nil {
		return nil, err
	}
	if !found || len(reviews) == 0 {
		return nil, ErrNoPersonas
	}
	return reviews, nil
}

func (d *DynamoStore) SetPersonas(ctx context.Context, sid string, reviews []persona.Review) error {
	if err := d.clearHistories(ctx, sid); err != nil {
		return err
	}
	return d.put(ctx, sid, "PERSONAS", reviews)
}

func (d *DynamoStore) History(ctx context.Context, sid string, personaID int) ([]persona.Turn, error) {
	var turns []persona.Turn
	found, err := d.get(ctx, sid, "HISTORY#"+strconv.Itoa(personaID), &turns)
	if err != nil || !found {
		return nil, err
	}
	return turns, nil
}

func (d *DynamoStore) AppendHistory(ctx context.Context, sid string, personaID int, turns ...persona.Turn) error {
	existing, err := d.History(ctx, sid, personaID)
	if err != nil {
		return err
	}
	merged := trimHistory(append(existing, turns...))
	return d.put(ctx, sid, "HISTORY#"+strconv.Itoa(personaID), merged)
}

// clearHistories removes all HISTORY# rows for the session so a fresh batch
// starts with empty conversations.
func (d *DynamoStore) clearHistories(ctx context.Context, sid string) error {
	result, err := d.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &d.tableName,
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: "SESSION#" + sid},
			":sk": &types.AttributeValueMemberS{Value: "HISTORY#"},
		},
		ProjectionExpression: aws.String("PK, SK"),
	})
	if err != nil {
		return fmt.Errorf("query histories: %w", err)
	}
	for _, item := range result.Items {
		sk, ok := item["SK"].(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: &d.tableName,
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: "SESSION#" + sid},
				"SK": sk,
			},
		})
		if err != nil {
			return fmt.Errorf("delete history row: %w", err)
		}
	}
	return nil
}

func (d *DynamoStore) Close() error { return nil }
