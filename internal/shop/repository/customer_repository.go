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

type CustomerRepository struct {
	client    *dynamodb.Client
	tableName string
}

func NewCustomerRepository(client *dynamodb.Client, tableName string) *CustomerRepository {
	return &CustomerRepository{
		client:    client,
		tableName: tableName,
	}
}

// Create inserts the customer; an existing record with the same email is
// left untouched and ErrCustomerExists is returned.
func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	av, err := attributevalue.MarshalMap(customer)
	if err != nil {
		return fmt.Errorf("failed to marshal customer: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrCustomerExists
		}
		return fmt.Errorf("failed to put customer: %w", err)
	}

	return nil
}

func (r *CustomerRepository) Get(ctx context.Context, email string) (*domain.Customer, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	if result.Item == nil {
		return nil, ErrCustomerNotFound
	}

	var customer domain.Customer
	if err := attributevalue.UnmarshalMap(result.Item, &customer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer: %w", err)
	}

	return &customer, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	return r.scan(ctx, nil)
}

// FindByName is a full table scan with an exact-match filter; the
// customers table has no secondary index on name or surname, so cost
// grows with table size.
func (r *CustomerRepository) FindByName(ctx context.Context, name, surname string) ([]domain.Customer, error) {
	var cond expression.ConditionBuilder
	switch {
	case name != "" && surname != "":
		cond = expression.Name("name").Equal(expression.Value(name)).
			And(expression.Name("surname").Equal(expression.Value(surname)))
	case name != "":
		cond = expression.Name("name").Equal(expression.Value(name))
	case surname != "":
		cond = expression.Name("surname").Equal(expression.Value(surname))
	default:
		return r.scan(ctx, nil)
	}

	expr, err := expression.NewBuilder().WithFilter(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build filter: %w", err)
	}

	return r.scan(ctx, &expr)
}

func (r *CustomerRepository) scan(ctx context.Context, expr *expression.Expression) ([]domain.Customer, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	}
	if expr != nil {
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	customers := []domain.Customer{}
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customers: %w", err)
		}

		var batch []domain.Customer
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal customers: %w", err)
		}
		customers = append(customers, batch...)
	}

	return customers, nil
}
