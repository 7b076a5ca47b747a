package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/trade-docs-api/internal/domain"
)

// ApplicationRepo provides typed DynamoDB operations for the applications
// table. Decisions span the comments table, so the repo knows both names.
type ApplicationRepo struct {
	client        *dynamodb.Client
	tableName     string
	commentsTable string
}

func NewApplicationRepo(client *dynamodb.Client, tableName, commentsTable string) *ApplicationRepo {
	return &ApplicationRepo{client: client, tableName: tableName, commentsTable: commentsTable}
}

func (r *ApplicationRepo) Get(ctx context.Context, applicationID string) (*domain.Application, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("application_id", applicationID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("application not found: %w", domain.ErrNotFound)
	}
	var a domain.Application
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// QueryByUser returns all applications owned by userID via the user_id-index GSI.
func (r *ApplicationRepo) QueryByUser(ctx context.Context, userID string) ([]domain.Application, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("user_id-index"),
		KeyConditionExpression:    aws.String("user_id = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":u": &types.AttributeValueMemberS{Value: userID}},
	})
	if err != nil {
		return nil, err
	}
	var apps []domain.Application
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// Scan returns all applications for reviewer and admin listings.
func (r *ApplicationRepo) Scan(ctx context.Context) ([]domain.Application, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var apps []domain.Application
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// UpdateDetails rewrites the free-text details of a PENDING application.
// The PENDING condition is enforced server-side so an edit can never race a
// concurrent decision; a failed condition maps to ErrInvalidState.
func (r *ApplicationRepo) UpdateDetails(ctx context.Context, applicationID, newDetails string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("application_id", applicationID),
		UpdateExpression:    aws.String("SET #d = :d, #u = :u"),
		ConditionExpression: aws.String("#st = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#d":  fieldDetails,
			"#u":  fieldUpdatedAt,
			"#st": fieldStatus,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":d":       &types.AttributeValueMemberS{Value: newDetails},
			":u":       &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
			":pending": &types.AttributeValueMemberS{Value: string(domain.StatusPending)},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("application already decided: %w", domain.ErrInvalidState)
		}
		return err
	}
	return nil
}

// Decide moves a PENDING application to a terminal status and appends the
// reviewer's comment in one TransactWriteItems call. The status condition
// makes the transition exactly-once: of two concurrent decisions, the loser's
// transaction is cancelled and surfaces as ErrInvalidState. No reader can
// observe the new status without the comment, or the comment without the
// status.
func (r *ApplicationRepo) Decide(ctx context.Context, applicationID string, status domain.ApplicationStatus, comment *domain.ApplicationComment) error {
	commentItem, err := attributevalue.MarshalMap(comment)
	if err != nil {
		return fmt.Errorf("marshal comment: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Update: &types.Update{
				TableName:           aws.String(r.tableName),
				Key:                 strKey("application_id", applicationID),
				UpdateExpression:    aws.String("SET #st = :s, #u = :u"),
				ConditionExpression: aws.String("attribute_exists(application_id) AND #st = :pending"),
				ExpressionAttributeNames: map[string]string{
					"#st": fieldStatus,
					"#u":  fieldUpdatedAt,
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":s":       &types.AttributeValueMemberS{Value: string(status)},
					":u":       &types.AttributeValueMemberS{Value: now},
					":pending": &types.AttributeValueMemberS{Value: string(domain.StatusPending)},
				},
			}},
			{Put: &types.Put{
				TableName: aws.String(r.commentsTable),
				Item:      commentItem,
			}},
		},
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			for _, reason := range tce.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					return fmt.Errorf("application already decided: %w", domain.ErrInvalidState)
				}
			}
		}
		return err
	}
	return nil
}
