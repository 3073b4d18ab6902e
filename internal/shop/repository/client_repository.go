package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/bean-harbor/shop-services/internal/shop/domain"
)

// ClientRepository backs the legacy client CRUD surface.
type ClientRepository struct {
	client    *dynamodb.Client
	tableName string
}

func NewClientRepository(client *dynamodb.Client, tableName string) *ClientRepository {
	return &ClientRepository{
		client:    client,
		tableName: tableName,
	}
}

func (r *ClientRepository) Create(ctx context.Context, record *domain.Client) error {
	av, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal client: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put client: %w", err)
	}

	return nil
}

// Update applies a partial field update. The condition keeps UpdateItem
// from inventing a record for an unknown id.
func (r *ClientRepository) Update(ctx context.Context, clientID string, req *domain.UpdateClientRequest) error {
	update, ok := buildClientUpdate(req)
	if !ok {
		return nil
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("client_id"))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"client_id": &types.AttributeValueMemberS{Value: clientID},
		},
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to update client: %w", err)
	}

	return nil
}

func buildClientUpdate(req *domain.UpdateClientRequest) (expression.UpdateBuilder, bool) {
	var update expression.UpdateBuilder
	changed := false

	set := func(name string, value interface{}) {
		update = update.Set(expression.Name(name), expression.Value(value))
		changed = true
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Surname != nil {
		set("surname", *req.Surname)
	}
	if req.Email != nil {
		set("email", *req.Email)
	}
	if req.ShippingAddress != nil {
		set("shipping_address", *req.ShippingAddress)
	}
	if req.Products != nil {
		set("products", *req.Products)
	}

	return update, changed
}

func (r *ClientRepository) Delete(ctx context.Context, clientID string) error {
	result, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"client_id": &types.AttributeValueMemberS{Value: clientID},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	if result.Attributes == nil {
		return ErrClientNotFound
	}

	return nil
}

// Search is a full table scan with substring filters; the clients table
// has no index on any of these attributes.
func (r *ClientRepository) Search(ctx context.Context, name, surname, product string) ([]domain.Client, error) {
	var cond expression.ConditionBuilder
	haveCond := false

	add := func(c expression.ConditionBuilder) {
		if haveCond {
			cond = cond.And(c)
		} else {
			cond = c
			haveCond = true
		}
	}

	if name != "" {
		add(expression.Name("name").Contains(name))
	}
	if surname != "" {
		add(expression.Name("surname").Contains(surname))
	}
	if product != "" {
		add(expression.Name("products").Contains(product))
	}

	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	}
	if haveCond {
		expr, err := expression.NewBuilder().WithFilter(cond).Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build filter: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	clients := []domain.Client{}
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clients: %w", err)
		}

		var batch []domain.Client
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal clients: %w", err)
		}
		clients = append(clients, batch...)
	}

	return clients, nil
}
