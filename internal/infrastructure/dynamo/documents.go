package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/trade-docs-api/internal/domain"
)

// DocumentRepo provides typed DynamoDB operations for the documents table.
// It also owns the ingest transaction, which spans the applications table.
type DocumentRepo struct {
	client            *dynamodb.Client
	tableName         string
	applicationsTable string
}

func NewDocumentRepo(client *dynamodb.Client, tableName, applicationsTable string) *DocumentRepo {
	return &DocumentRepo{client: client, tableName: tableName, applicationsTable: applicationsTable}
}

// PutWithApplication writes the document and its PENDING application in a
// single TransactWriteItems call. Either both rows persist or neither does.
func (r *DocumentRepo) PutWithApplication(ctx context.Context, d *domain.Document, a *domain.Application) error {
	docItem, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	appItem, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal application: %w", err)
	}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.tableName),
				Item:                docItem,
				ConditionExpression: aws.String("attribute_not_exists(document_id)"),
			}},
			{Put: &types.Put{
				TableName:           aws.String(r.applicationsTable),
				Item:                appItem,
				ConditionExpression: aws.String("attribute_not_exists(application_id)"),
			}},
		},
	})
	return err
}

func (r *DocumentRepo) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("document_id", documentID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("document not found: %w", domain.ErrNotFound)
	}
	var d domain.Document
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// QueryByUser returns all documents owned by userID via the user_id-index GSI.
func (r *DocumentRepo) QueryByUser(ctx context.Context, userID string) ([]domain.Document, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("user_id-index"),
		KeyConditionExpression:    aws.String("user_id = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":u": &types.AttributeValueMemberS{Value: userID}},
	})
	if err != nil {
		return nil, err
	}
	var docs []domain.Document
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Scan returns all documents. Reviewer and admin listings are portal-wide.
func (r *DocumentRepo) Scan(ctx context.Context) ([]domain.Document, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var docs []domain.Document
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
