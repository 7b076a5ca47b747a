package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/trade-docs-api/internal/domain"
)

// CommentRepo reads the application comments table. Writes happen only
// inside ApplicationRepo.Decide, so this repo is read-only.
type CommentRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCommentRepo(client *dynamodb.Client, tableName string) *CommentRepo {
	return &CommentRepo{client: client, tableName: tableName}
}

// QueryByApplication returns the decision audit trail for an application via
// the application_id-index GSI.
func (r *CommentRepo) QueryByApplication(ctx context.Context, applicationID string) ([]domain.ApplicationComment, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("application_id-index"),
		KeyConditionExpression:    aws.String("application_id = :a"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":a": &types.AttributeValueMemberS{Value: applicationID}},
	})
	if err != nil {
		return nil, err
	}
	var comments []domain.ApplicationComment
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
