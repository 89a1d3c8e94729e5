/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/busregistry/storagemodels"
)

// queryPartition reads every item in one partition, page by page, and maps each
// item to a row of its string attributes.
func (d *DynamodbDataStore) queryPartition(ctx context.Context, pk string) ([]storagemodels.Row, error) {
	keyCond := "PK = :pkVal"
	input := &sdk.QueryInput{
		TableName:              &d.tableName,
		KeyConditionExpression: &keyCond,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pkVal": &types.AttributeValueMemberS{Value: pk},
		},
		ConsistentRead: aws.Bool(true),
		Limit:          aws.Int32(d.options.PageSize),
	}

	rows := make([]storagemodels.Row, 0)
	pages := 0
	for {
		out, err := d.queryWithRetry(ctx, input)
		if err != nil {
			return nil, err
		}
		pages++

		for _, item := range out.Items {
			rows = append(rows, rowFromItem(item))
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	d.logger.Debug().Str("pk", pk).Int("rows", len(rows)).Int("pages", pages).Msg("subscribers queried")
	return rows, nil
}

// queryWithRetry executes a query, retrying throttling errors with linear backoff
func (d *DynamodbDataStore) queryWithRetry(ctx context.Context, input *sdk.QueryInput) (*sdk.QueryOutput, error) {
	var lastErr error

	for attempt := 0; attempt <= d.options.MaxRetries; attempt++ {
		out, err := d.client.Query(ctx, input)
		if err == nil {
			return out, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			return nil, fmt.Errorf("query error: %w", err)
		}

		// Don't sleep after last attempt
		if attempt < d.options.MaxRetries {
			backoff := time.Duration(attempt+1) * d.options.RetryBackoff
			d.logger.Warn().Err(err).Int("attempt", attempt+1).Dur("backoff", backoff).Msg("retrying throttled query")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("query failed after %d retries: %w", d.options.MaxRetries, lastErr)
}

// rowFromItem keeps the string attributes of an item
func rowFromItem(item map[string]types.AttributeValue) storagemodels.Row {
	row := make(storagemodels.Row, len(item))
	for k, v := range item {
		if s, ok := v.(*types.AttributeValueMemberS); ok {
			row[k] = s.Value
		}
	}
	return row
}

// isRetryableError determines if a DynamoDB error is retryable
func isRetryableError(err error) bool {
	var (
		throughput *types.ProvisionedThroughputExceededException
		limit      *types.RequestLimitExceeded
		internal   *types.InternalServerError
	)
	if errors.As(err, &throughput) || errors.As(err, &limit) || errors.As(err, &internal) {
		return true
	}

	// Check for AWS SDK retryable errors
	var retryable interface{ RetryableError() bool }
	if errors.As(err, &retryable) {
		return retryable.RetryableError()
	}

	return false
}
