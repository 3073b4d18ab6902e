package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/bean-harbor/shop-services/internal/shop/domain"
)

type PurchaseRepository struct {
	client    *dynamodb.Client
	tableName string
}

func NewPurchaseRepository(client *dynamodb.Client, tableName string) *PurchaseRepository {
	return &PurchaseRepository{
		client:    client,
		tableName: tableName,
	}
}

func (r *PurchaseRepository) Put(ctx context.Context, purchase *domain.Purchase) error {
	av, err := attributevalue.MarshalMap(purchase)
	if err != nil {
		return fmt.Errorf("failed to marshal purchase: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put purchase: %w", err)
	}

	return nil
}

// ListByCustomer is a point query on the partition key.
func (r *PurchaseRepository) ListByCustomer(ctx context.Context, email string) ([]domain.Purchase, error) {
	keyCond := expression.Key("customer_email").Equal(expression.Value(email))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build key condition: %w", err)
	}

	purchases := []domain.Purchase{}
	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query purchases: %w", err)
		}

		var batch []domain.Purchase
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal purchases: %w", err)
		}
		purchases = append(purchases, batch...)
	}

	return purchases, nil
}

func (r *PurchaseRepository) List(ctx context.Context) ([]domain.Purchase, error) {
	purchases := []domain.Purchase{}
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchases: %w", err)
		}

		var batch []domain.Purchase
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal purchases: %w", err)
		}
		purchases = append(purchases, batch...)
	}

	return purchases, nil
}
