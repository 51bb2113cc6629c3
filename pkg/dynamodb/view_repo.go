package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog"
	"github.com/savaki/ga-webhook/pkg/models"
)

// ViewRepository stores navigation records in DynamoDB
type ViewRepository struct {
	client    PutItemAPI
	tableName string
	logger    zerolog.Logger
}

// NewViewRepository creates a new view repository
func NewViewRepository(client PutItemAPI, tableName string, logger zerolog.Logger) *ViewRepository {
	return &ViewRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// InsertView stores a navigation record. Existing records with the same ID are not overwritten.
func (r *ViewRepository) InsertView(ctx context.Context, rec *models.NavRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal nav record: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &r.tableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}

	r.logger.Debug().
		Str("record_id", rec.ID).
		Str("view", rec.View).
		Str("table", r.tableName).
		Msg("Saved nav record to DynamoDB")
	return nil
}
