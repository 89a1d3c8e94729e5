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
)

// ProvisionTimeout bounds how long Provision waits for the table to become active.
const ProvisionTimeout = 2 * time.Minute

// Provision creates the subscription table if it does not exist and waits until it is active.
func (d *DynamodbDataStore) Provision(ctx context.Context) error {
	_, err := d.client.CreateTable(ctx, &sdk.CreateTableInput{
		TableName: &d.tableName,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("PK"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("SK"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("PK"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("SK"), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if !errors.As(err, &inUse) {
			return fmt.Errorf("CreateTable failed: %w", err)
		}
		d.logger.Debug().Str("table", d.tableName).Msg("table already exists")
	}

	waiter := sdk.NewTableExistsWaiter(d.client, func(o *sdk.TableExistsWaiterOptions) {
		o.MinDelay = time.Second
	})
	if err := waiter.Wait(ctx, &sdk.DescribeTableInput{TableName: &d.tableName}, ProvisionTimeout); err != nil {
		return fmt.Errorf("waiting for table %s: %w", d.tableName, err)
	}

	d.logger.Info().Str("table", d.tableName).Msg("subscription table provisioned")
	return nil
}
