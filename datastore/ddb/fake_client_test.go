/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeClient is an in-memory stand-in for the DynamoDB API used by the store tests
type fakeClient struct {
	mu sync.Mutex

	describe    *sdk.DescribeTableOutput
	describeErr error
	createErr   error
	updateErr   error
	queryErrs   []error // consumed one per Query call before pages are served
	pages       []*sdk.QueryOutput

	creates []*sdk.CreateTableInput
	updates []*sdk.UpdateItemInput
	queries []*sdk.QueryInput
}

func activeTable(name string) *sdk.DescribeTableOutput {
	return &sdk.DescribeTableOutput{
		Table: &types.TableDescription{
			TableName:   aws.String(name),
			TableStatus: types.TableStatusActive,
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("PK"), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String("SK"), KeyType: types.KeyTypeRange},
			},
		},
	}
}

func (f *fakeClient) DescribeTable(ctx context.Context, params *sdk.DescribeTableInput, optFns ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return f.describe, nil
}

func (f *fakeClient) CreateTable(ctx context.Context, params *sdk.CreateTableInput, optFns ...func(*sdk.Options)) (*sdk.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, params)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &sdk.CreateTableOutput{}, nil
}

func (f *fakeClient) UpdateItem(ctx context.Context, params *sdk.UpdateItemInput, optFns ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, params)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &sdk.UpdateItemOutput{}, nil
}

func (f *fakeClient) Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Snapshot the input since the store mutates ExclusiveStartKey between pages
	snapshot := *params
	f.queries = append(f.queries, &snapshot)

	if len(f.queryErrs) > 0 {
		err := f.queryErrs[0]
		f.queryErrs = f.queryErrs[1:]
		return nil, err
	}
	if len(f.pages) == 0 {
		return &sdk.QueryOutput{}, nil
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	return page, nil
}

func subscriptionItem(messageType, address string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":              &types.AttributeValueMemberS{Value: "SUBSCRIPTION#" + messageType},
		"SK":              &types.AttributeValueMemberS{Value: "ENDPOINT#" + address},
		"MessageType":     &types.AttributeValueMemberS{Value: messageType},
		"EndpointAddress": &types.AttributeValueMemberS{Value: address},
	}
}
