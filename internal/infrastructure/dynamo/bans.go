package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/quranara/api/internal/domain"
)

// BanRepo provides typed DynamoDB operations for the bans table.
// PK: ban_id; phone-index GSI backs the signup-time block check.
type BanRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewBanRepo(client *dynamodb.Client, tableName string) *BanRepo {
	return &BanRepo{client: client, tableName: tableName}
}

func (r *BanRepo) Put(ctx context.Context, b *domain.Ban) error {
	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return fmt.Errorf("marshal ban: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *BanRepo) Get(ctx context.Context, banID string) (*domain.Ban, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("ban_id", banID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("ban not found: %w", domain.ErrNotFound)
	}
	var b domain.Ban
	if err := attributevalue.UnmarshalMap(out.Item, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByPhone reports whether a phone number is blocked from account creation.
func (r *BanRepo) GetByPhone(ctx context.Context, phone string) (*domain.Ban, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("phone-index"),
		KeyConditionExpression:    aws.String("phone = :p"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":p": &types.AttributeValueMemberS{Value: phone}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("ban not found: %w", domain.ErrNotFound)
	}
	var b domain.Ban
	if err := attributevalue.UnmarshalMap(out.Items[0], &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BanRepo) Delete(ctx context.Context, banID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("ban_id", banID),
	})
	return err
}

// ScanPage returns a page of ban records for the admin listing.
func (r *BanRepo) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Ban, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(limit),
	}
	if cursor != "" {
		banID, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = map[string]types.AttributeValue{
			"ban_id": &types.AttributeValueMemberS{Value: banID},
		}
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", err
	}
	var bans []domain.Ban
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &bans); err != nil {
		return nil, "", err
	}
	nextCursor := ""
	if v, ok := out.LastEvaluatedKey["ban_id"].(*types.AttributeValueMemberS); ok {
		nextCursor = encodeCursor(v.Value)
	}
	return bans, nextCursor, nil
}
